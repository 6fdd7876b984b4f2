package db

import "time"

// Question is a would-you-rather style prompt with two labelled poles. The
// option columns carry "A", "B" or "A,B" when the rule applies to that pole.
// FollowUpQuestionID is a plain optional reference; cycles are tolerated data.
type Question struct {
	ID                       uint      `gorm:"primaryKey"`
	Text                     string    `gorm:"size:280;not null"`
	AnswerA                  string    `gorm:"size:140;not null"`
	AnswerB                  string    `gorm:"size:140;not null"`
	Hotness                  *float64  `gorm:""`
	Knowledge                *string   `gorm:"size:64"`
	LosesAllPoints           *string   `gorm:"column:loses_all_points_option;size:8"`
	Beheading                *string   `gorm:"column:beheading_option;size:8"`
	PlusOnePoint             *string   `gorm:"column:plus_one_point_option;size:8"`
	Invincibility            *string   `gorm:"column:invincibility_option;size:8"`
	Jail                     *string   `gorm:"column:jail_option;size:8"`
	GenocideRoute            *string   `gorm:"column:genocide_route_option;size:8"`
	FollowUpQuestionID       *uint     `gorm:"index"`
	FollowUpCondition        *string   `gorm:"column:follow_up_condition_option;size:8"`
	InvincibilityOrBeheading *string   `gorm:"column:invincibility_or_beheading_option;size:8"`
	CreatedAt                time.Time `gorm:"not null"`
	UpdatedAt                time.Time `gorm:"not null"`
}
