package model

// Status is the lifecycle tag on a record. Statuses are deliberately
// free-form at the store layer; the constants below are the well-known values
// the CLI and dashboards use, and anything else (e.g. "Contacted",
// "Meeting Booked" on a career request) is accepted as-is.
type Status string

const (
	StatusNew            Status = "New"
	StatusPendingPayment Status = "Pending Payment"
	StatusPaid           Status = "Paid"
	StatusContacted      Status = "Contacted"
	StatusMeetingBooked  Status = "Meeting Booked"
	StatusClosed         Status = "Closed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsWellKnown reports whether the status is one of the predefined values.
// Unknown statuses are still valid records.
func (s Status) IsWellKnown() bool {
	switch s {
	case StatusNew, StatusPendingPayment, StatusPaid, StatusContacted,
		StatusMeetingBooked, StatusClosed:
		return true
	}
	return false
}

// NextStatuses suggests the usual follow-up statuses for UI pickers. This is
// advisory only; no transition table is enforced anywhere.
func (s Status) NextStatuses() []Status {
	switch s {
	case StatusNew:
		return []Status{StatusContacted, StatusMeetingBooked, StatusClosed}
	case StatusPendingPayment:
		return []Status{StatusPaid, StatusClosed}
	case StatusContacted:
		return []Status{StatusMeetingBooked, StatusClosed}
	case StatusMeetingBooked:
		return []Status{StatusClosed}
	default:
		return nil
	}
}

// PaymentStatus tracks payment separately from the main lifecycle status on
// registration records. Career requests leave it empty.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

// String returns the string representation of the payment status.
func (p PaymentStatus) String() string {
	return string(p)
}
