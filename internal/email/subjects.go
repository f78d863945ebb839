package email

const (
	subjectQuoteSentFmt       = "Quote %s from %s"
	subjectQuoteDeclinedFmt   = "Quote %s was declined"
	subjectQuoteCancelledFmt  = "Quote %s was withdrawn by %s"
	subjectBookingClientFmt   = "Your booking is confirmed (quote %s)"
	subjectBookingVendorFmt   = "New booking (quote %s)"
	subjectBalanceReminderFmt = "Balance due for booking %s"
)
