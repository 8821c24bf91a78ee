package email

const (
	subjectBookingConfirmationFmt    = "We received your request %s"
	subjectBookingAdminAlertFmt      = "New booking %s"
	subjectBookingConsultantAlertFmt = "Booking %s assigned to you"
	subjectQuoteReadyFmt             = "Your quote for booking %s"
	subjectQuoteStatusChangedFmt     = "Quote update for booking %s"
	subjectInvoiceReadyFmt           = "Invoice %s"
	subjectPaymentConfirmedFmt       = "Payment received for invoice %s"
	subjectQuoteReminderFmt          = "Reminder: your quote for booking %s"
	subjectInvoiceOverdueFmt         = "Reminder: invoice %s is overdue"
)
