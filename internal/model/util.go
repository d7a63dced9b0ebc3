package model

import "errors"

// ErrNotActionTarget is returned when someone other than the party a
// request is addressed to tries to act on it.
var ErrNotActionTarget = errors.New("only the target of this request may act on it")

// MigrateAble is array of model instance, use for migrating database
var MigrateAble []interface{}

func init() {
	MigrateAble = append(
		MigrateAble,
		&User{},
		&StudentProfile{},
		&AlumniProfile{},
		&RecruiterProfile{},
		&VerificationRecord{},
		&File{},
		&Job{},
		&Application{},
		&JobFAQ{},
		&Referral{},
		&Connection{},
		&Message{},
		&SpamReport{},
		&ScoreAudit{},
		&Course{},
		&Enrollment{},
		&QASession{},
		&QAQuestion{},
		&JobAlert{},
		&AlertNotification{},
	)
}
