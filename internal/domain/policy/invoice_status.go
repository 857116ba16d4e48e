package policy

import "storefront/internal/domain/model"

const (
	MsgDraftCannotBePaid  = "A draft invoice cannot be marked paid."
	MsgPaidMustStayPaid   = "A paid invoice must remain paid."
	MsgInvalidStatus      = "invalid status"
	MsgInvalidPaymentStat = "invalid payment_status"
)

// 請求書の (status, payment_status) の組
type InvoiceState struct {
	Status        model.InvoiceStatus `json:"status"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
}

// status と payment_status をまとめて更新する。
//
// 1. status=paid なら payment_status=paid に補正
// 2. 補正後 payment_status=paid のとき、現在または更新後の status が draft なら拒否
// 3. status=cancelled かつ payment_status=overdue なら pending に補正
//
// 結果は常に「paid ⇒ draftでない」「status=paid ⇒ payment_status=paid」を満たす。
func ResolveInvoiceUpdate(current InvoiceState, desired InvoiceState) (InvoiceState, error) {
	if !desired.Status.Valid() {
		return current, fieldError("status", MsgInvalidStatus)
	}
	if !desired.PaymentStatus.Valid() {
		return current, fieldError("payment_status", MsgInvalidPaymentStat)
	}

	next := desired

	if next.Status == model.InvoiceStatusPaid && next.PaymentStatus != model.PaymentStatusPaid {
		next.PaymentStatus = model.PaymentStatusPaid
	}

	if next.PaymentStatus == model.PaymentStatusPaid &&
		(next.Status == model.InvoiceStatusDraft || current.Status == model.InvoiceStatusDraft) {
		return current, fieldError("status", MsgDraftCannotBePaid)
	}

	if next.Status == model.InvoiceStatusCancelled && next.PaymentStatus == model.PaymentStatusOverdue {
		next.PaymentStatus = model.PaymentStatusPending
	}

	return next, nil
}

// payment_status だけを更新する。
// sent の請求書が paid になったら status も paid に上げる。
func ResolvePaymentUpdate(current InvoiceState, payment model.PaymentStatus) (InvoiceState, error) {
	if !payment.Valid() {
		return current, fieldError("payment_status", MsgInvalidPaymentStat)
	}

	next := current
	next.PaymentStatus = payment

	switch {
	case payment == model.PaymentStatusPaid && current.Status == model.InvoiceStatusDraft:
		return current, fieldError("status", MsgDraftCannotBePaid)
	case payment == model.PaymentStatusPaid && current.Status == model.InvoiceStatusSent:
		next.Status = model.InvoiceStatusPaid
	case payment != model.PaymentStatusPaid && current.Status == model.InvoiceStatusPaid:
		return current, fieldError("payment_status", MsgPaidMustStayPaid)
	case payment == model.PaymentStatusOverdue && current.Status == model.InvoiceStatusCancelled:
		next.PaymentStatus = model.PaymentStatusPending
	}

	return next, nil
}
