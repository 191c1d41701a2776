// file: internals/features/setcheck/reconcile/dto/result_dto.go
package dto

// ActionResult is the value-level answer of apply and amend. Exactly one of
// Success / Error is set; Errors carries leftover mismatches of a failed amend.
type ActionResult struct {
	Success string   `json:"success,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (r ActionResult) OK() bool { return r.Error == "" }

// CheckResult is the answer of check. Errors is always encoded, empty when compliant.
type CheckResult struct {
	Errors []string `json:"errors"`
	Error  string   `json:"error,omitempty"`
}

// ReconcileRequest is the body of apply/check/amend.
type ReconcileRequest struct {
	AssignmentID int64 `json:"assignment_id" form:"assignment_id" validate:"required,gt=0"`
}

// AjaxRequest mirrors the legacy ajax endpoint's parameters.
type AjaxRequest struct {
	Action       string `json:"action" form:"action" query:"action"`
	TemplateID   int64  `json:"template_id" form:"template_id" query:"template_id" validate:"required,gt=0"`
	AssignmentID int64  `json:"assignment_id" form:"assignment_id" query:"assignment_id" validate:"required,gt=0"`
}
