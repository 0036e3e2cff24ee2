package entity

// ReferenceKind identifica el tipo de documento de negocio que originó un
// movimiento o asiento. Reemplaza el par polimórfico (ref_table, ref_id)
// por un enum tipado; el core almacena la referencia pero nunca la interpreta.
type ReferenceKind string

const (
	RefIssueVoucher      ReferenceKind = "issue_voucher"
	RefReturnVoucher     ReferenceKind = "return_voucher"
	RefTransferVoucher   ReferenceKind = "transfer_voucher"
	RefPayment           ReferenceKind = "payment"
	RefInvoice           ReferenceKind = "invoice"
	RefInventoryCount    ReferenceKind = "inventory_count"
	RefBalanceCorrection ReferenceKind = "balance_correction"
)

// Reference apunta al documento origen de un hecho contable (trazabilidad).
type Reference struct {
	Kind ReferenceKind
	ID   string
}

// Valid indica si la referencia tiene kind e id no vacíos.
func (r Reference) Valid() bool {
	return r.Kind != "" && r.ID != ""
}
