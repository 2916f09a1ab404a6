package dto

// OutboundBatchRequest body para POST /api/outbound/batches.
// Las cantidades de cada línea viajan como texto del formulario: deben
// parsear como enteros no negativos (una entrada fraccionaria se rechaza).
type OutboundBatchRequest struct {
	WarehouseID   string                `json:"warehouse_id"`
	PlateNumber   string                `json:"plate_number"`
	Destination   string                `json:"destination"`
	Receiver      string                `json:"receiver"`
	DepartureTime string                `json:"departure_time,omitempty"`
	Policy        string                `json:"policy,omitempty"` // lenient (default) | strict
	Items         []OutboundLineRequest `json:"items"`
}

// OutboundLineRequest una línea del lote.
type OutboundLineRequest struct {
	IDCode        string `json:"id_code"`
	Pallets       string `json:"pallets,omitempty"`
	Packages      string `json:"packages,omitempty"`
	Remarks       string `json:"remarks,omitempty"`
	DocumentCount string `json:"document_count,omitempty"`
}

// LineError problema de una línea individual del lote. En política leniente
// la línea se omite y el resto del lote continúa; en estricta aborta todo.
type LineError struct {
	Line   int    `json:"line"` // índice 1-based dentro del lote
	IDCode string `json:"id_code,omitempty"`
	Reason string `json:"reason"`
}

// BatchResult resultado de aplicar un lote de salida.
type BatchResult struct {
	SavedCount  int         `json:"saved_count"`
	BatchNumber string      `json:"batch_number"` // etiqueta de presentación, no única bajo envíos concurrentes
	Errors      []LineError `json:"errors,omitempty"`
	Warnings    []string    `json:"warnings,omitempty"` // ej. retiro mayor al disponible recortado a cero
}
