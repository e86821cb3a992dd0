package models

import (
	"time"
)

// Submitter is the lightweight profile kept per submitter email. It is
// upserted on every accepted intake; the email is the natural key.
type Submitter struct {
	SubmitterID      int        `gorm:"primaryKey;column:submitter_id" json:"submitter_id"`
	Email            string     `gorm:"column:email;unique" json:"email"`
	Name             string     `gorm:"column:name" json:"name"`
	OrgUnits         string     `gorm:"column:org_units" json:"org_units"`
	Division         string     `gorm:"column:division" json:"division"`
	SubmissionCount  int        `gorm:"column:submission_count" json:"submission_count"`
	LastSubmissionAt *time.Time `gorm:"column:last_submission_at" json:"last_submission_at,omitempty"`
	CreateAt         *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`
}

func (Submitter) TableName() string {
	return "submitters"
}
