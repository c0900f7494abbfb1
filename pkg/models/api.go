package models

// Auth API types
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nome     string `json:"nome"`
	Username string `json:"username"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expires_at"`
	Profile   *Profile `json:"profile"`
}

type MakeAdminRequest struct {
	Username string `json:"username"`
}

// Equipment API types
type ReserveRequest struct {
	Nome string `json:"nome"`

	// Optional extras from the richer reservation variant. Recorded in the
	// audit details, not on the equipment row.
	Placa        *string `json:"placa,omitempty"`
	Acompanhante *string `json:"acompanhante,omitempty"`
}

type ImportRequest struct {
	Empresa   string  `json:"empresa"`
	TecnicoID *string `json:"tecnico_id,omitempty"`
	Text      string  `json:"text"`
}

type ImportResponse struct {
	Inserted int `json:"inserted"`
}

type InvalidLinesResponse struct {
	Error        string `json:"error"`
	InvalidLines []int  `json:"invalid_lines"`
}

type ListEquipmentResponse struct {
	Equipments []Equipment `json:"equipments"`
}

type ListTechniciansResponse struct {
	Technicians []Technician `json:"technicians"`
}

type ListAgendaResponse struct {
	Agenda []AgendaEntry `json:"agenda"`
}

type ListAuditLogsResponse struct {
	Logs []AuditLog `json:"logs"`
}

// Error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
