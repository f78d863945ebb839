// Package scheduler provides deferred background jobs backed by asynq.
// The only job this core schedules is the balance payment reminder for
// deposit-mode bookings; everything else is delivered inline after
// commit.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskBalanceReminder = "bookings.balance.reminder"

// BalanceReminderPayload carries everything the reminder needs so the
// worker can send without a database read on the happy path. The booking
// status is still re-checked at run time.
type BalanceReminderPayload struct {
	BookingID    string `json:"bookingId"`
	QuoteNumber  string `json:"quoteNumber"`
	ClientName   string `json:"clientName"`
	ClientEmail  string `json:"clientEmail"`
	BalanceCents int64  `json:"balanceCents"`
	DueDate      string `json:"dueDate"`
}

func NewBalanceReminderTask(payload BalanceReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBalanceReminder, data), nil
}

func ParseBalanceReminderPayload(task *asynq.Task) (BalanceReminderPayload, error) {
	var payload BalanceReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return BalanceReminderPayload{}, err
	}
	return payload, nil
}
