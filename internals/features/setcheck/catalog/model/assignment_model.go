// file: internals/features/setcheck/catalog/model/assignment_model.go
package model

// AssignmentModel mirrors the host LMS assign record. Column names are the
// setting names templates refer to, so they are kept unprefixed.
type AssignmentModel struct {
	ID                          int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Course                      int64  `gorm:"not null;index;column:course" json:"course"`
	Name                        string `gorm:"type:varchar(255);not null;column:name" json:"name"`
	Intro                       string `gorm:"type:text;column:intro" json:"intro"`
	DueDate                     int64  `gorm:"not null;default:0;column:duedate" json:"duedate"`
	AllowSubmissionsFromDate    int64  `gorm:"not null;default:0;column:allowsubmissionsfromdate" json:"allowsubmissionsfromdate"`
	CutoffDate                  int64  `gorm:"not null;default:0;column:cutoffdate" json:"cutoffdate"`
	GradingDueDate              int64  `gorm:"not null;default:0;column:gradingduedate" json:"gradingduedate"`
	Grade                       int64  `gorm:"not null;default:100;column:grade" json:"grade"`
	NoSubmissions               int    `gorm:"not null;default:0;column:nosubmissions" json:"nosubmissions"`
	SubmissionDrafts            int    `gorm:"not null;default:0;column:submissiondrafts" json:"submissiondrafts"`
	SendNotifications           int    `gorm:"not null;default:0;column:sendnotifications" json:"sendnotifications"`
	SendLateNotifications       int    `gorm:"not null;default:0;column:sendlatenotifications" json:"sendlatenotifications"`
	SendStudentNotifications    int    `gorm:"not null;default:1;column:sendstudentnotifications" json:"sendstudentnotifications"`
	RequireSubmissionStatement  int    `gorm:"not null;default:0;column:requiresubmissionstatement" json:"requiresubmissionstatement"`
	TeamSubmission              int    `gorm:"not null;default:0;column:teamsubmission" json:"teamsubmission"`
	RequireAllTeamMembersSubmit int    `gorm:"not null;default:0;column:requireallteammemberssubmit" json:"requireallteammemberssubmit"`
	PreventSubmissionNotInGroup int    `gorm:"not null;default:0;column:preventsubmissionnotingroup" json:"preventsubmissionnotingroup"`
	BlindMarking                int    `gorm:"not null;default:0;column:blindmarking" json:"blindmarking"`
	MarkingWorkflow             int    `gorm:"not null;default:0;column:markingworkflow" json:"markingworkflow"`
	MarkingAllocation           int    `gorm:"not null;default:0;column:markingallocation" json:"markingallocation"`
	AttemptReopenMethod         string `gorm:"type:varchar(10);not null;default:'none';column:attemptreopenmethod" json:"attemptreopenmethod"`
	MaxAttempts                 int    `gorm:"not null;default:-1;column:maxattempts" json:"maxattempts"`
	TimeModified                int64  `gorm:"autoUpdateTime;column:timemodified" json:"timemodified"`
}

func (AssignmentModel) TableName() string { return "assignments" }
