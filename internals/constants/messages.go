package constants

// Reconciliation result messages. Clients match on these strings.
const (
	MsgTemplateApplied             = "Template applied successfully"
	MsgAllErrorsAmended            = "All errors amended"
	ErrInvalidTemplateOrAssignment = "Invalid template or assignment"
	ErrInvalidTemplateSettings     = "Invalid template settings"
	ErrAmendIncomplete             = "Some settings could not be amended"
	ErrInvalidAction               = "Invalid action"
	ErrTemplateNameRequired        = "Template name is required."
	MsgNoSettingsFound             = "No settings found for this template."
)

// MismatchMessage formats one compliance error.
func MismatchMessage(setting string) string {
	return "Mismatch in setting '" + setting + "'"
}
