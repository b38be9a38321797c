package types

// OutreachOffer represents one sponsor match with a drafted pitch email
type OutreachOffer struct {
	PartnerName     string `json:"partner_name"`
	ContactURL      string `json:"contact_url"`
	Rationale       string `json:"rationale"`
	MessageDraft    string `json:"message_draft"`
	PartnershipType string `json:"partnership_type,omitempty"`
	ScriptIncluded  bool   `json:"script_included,omitempty"`
}
