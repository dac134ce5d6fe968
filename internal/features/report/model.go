package report

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report periods stored in data.period of a reports record
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

var Periods = []string{PeriodDaily, PeriodWeekly, PeriodMonthly}

func IsPeriod(p string) bool {
	for _, known := range Periods {
		if known == p {
			return true
		}
	}
	return false
}

// Digest summarises the reports filed in one window
type Digest struct {
	ID           primitive.ObjectID          `bson:"_id,omitempty" json:"id"`
	From         time.Time                   `bson:"from" json:"from"`
	To           time.Time                   `bson:"to" json:"to"`
	Total        int64                       `bson:"total" json:"total"`
	ByPeriod     map[string]int64            `bson:"by_period" json:"by_period"`
	ByDepartment map[string]map[string]int64 `bson:"by_department" json:"by_department"`
	CreatedAt    time.Time                   `bson:"created_at" json:"created_at"`
}
