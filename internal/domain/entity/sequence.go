package entity

import "fmt"

// Tipos de entidad con numeración propia.
const (
	SeqIssueVouchers    = "issue_vouchers"
	SeqReturnVouchers   = "return_vouchers"
	SeqTransferVouchers = "transfer_vouchers"
	SeqPayments         = "payments"
	SeqCustomers        = "customers"
)

// Sequence es el contador por (tipo de entidad, año) para numerar documentos.
// La fila es el único punto de control de concurrencia de la numeración:
// toda asignación la bloquea (FOR UPDATE) durante su transacción.
type Sequence struct {
	EntityType  string
	Year        int
	LastNumber  int64
	Prefix      string
	MinValue    int64
	MaxValue    int64
	IncrementBy int64
	AutoReset   bool
}

// Format da el número con el formato del negocio: PREFIX2025/00042 si hay
// prefijo (relleno a 5 dígitos), o 2025/42 sin él.
func (s *Sequence) Format(n int64) string {
	if s.Prefix != "" {
		return fmt.Sprintf("%s%d/%05d", s.Prefix, s.Year, n)
	}
	return fmt.Sprintf("%d/%d", s.Year, n)
}

// Remaining devuelve cuántos números quedan antes de agotar el rango.
func (s *Sequence) Remaining() int64 {
	return s.MaxValue - s.LastNumber
}
