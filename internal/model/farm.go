// Package model はドメインモデルを定義する。
package model

import "time"

// GestationDays は交配日から分娩予定日までの標準日数。
const GestationDays = 114

// SowStatus は母豚の状態を表す。
type SowStatus string

const (
	SowStatusActive    SowStatus = "ACTIVE"
	SowStatusPregnant  SowStatus = "PREGNANT"
	SowStatusFarrowing SowStatus = "FARROWING"
	SowStatusWeaning   SowStatus = "WEANING"
	SowStatusCulled    SowStatus = "CULLED"
	SowStatusDead      SowStatus = "DEAD"
)

// BoarStatus は種雄豚の状態を表す。
type BoarStatus string

const (
	BoarStatusActive  BoarStatus = "ACTIVE"
	BoarStatusResting BoarStatus = "RESTING"
	BoarStatusCulled  BoarStatus = "CULLED"
	BoarStatusDead    BoarStatus = "DEAD"
)

// PigletStatus は子豚の状態を表す。
type PigletStatus string

const (
	PigletStatusNursing PigletStatus = "NURSING"
	PigletStatusWeaned  PigletStatus = "WEANED"
	PigletStatusGrowing PigletStatus = "GROWING"
	PigletStatusSold    PigletStatus = "SOLD"
	PigletStatusDead    PigletStatus = "DEAD"
)

// Sow は母豚を表す。
type Sow struct {
	ID        string
	TagNumber string
	Breed     string
	BirthDate *time.Time
	Status    SowStatus
	PenID     *string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Boar は種雄豚を表す。
type Boar struct {
	ID        string
	TagNumber string
	Breed     string
	BirthDate *time.Time
	Status    BoarStatus
	PenID     *string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Piglet は子豚を表す。
type Piglet struct {
	ID          string
	TagNumber   string
	FarrowingID *string
	SowID       *string
	BirthDate   *time.Time
	BirthWeight *float64
	Sex         string
	Status      PigletStatus
	PenID       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Pen は豚房を表す。
type Pen struct {
	ID        string
	Name      string
	PenType   string
	Capacity  int
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Breeding は交配記録を表す。
// ExpectedFarrowDateは明示指定がない限り交配日+114日とする。
// Successは結果判明まではnil。
type Breeding struct {
	ID                 string
	SowID              string
	BoarID             string
	BreedingDate       time.Time
	Success            *bool
	ExpectedFarrowDate time.Time
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Farrowing は分娩記録を表す。BornAlive ≤ TotalBorn を不変条件とする。
type Farrowing struct {
	ID             string
	BreedingID     string
	SowID          string
	FarrowingDate  time.Time
	TotalBorn      int
	BornAlive      int
	Stillborn      int
	Mummified      int
	AvgBirthWeight *float64
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HealthRecordType は健康記録の種別を表す。
type HealthRecordType string

const (
	HealthRecordVaccination HealthRecordType = "VACCINATION"
	HealthRecordTreatment   HealthRecordType = "TREATMENT"
	HealthRecordDisease     HealthRecordType = "DISEASE"
	HealthRecordMortality   HealthRecordType = "MORTALITY"
)

// SubjectType は健康記録の対象個体の種別を表す。
type SubjectType string

const (
	SubjectSow    SubjectType = "SOW"
	SubjectBoar   SubjectType = "BOAR"
	SubjectPiglet SubjectType = "PIGLET"
)

// HealthRecord は健康記録（ワクチン接種・治療・疾病・死亡）を表す。
type HealthRecord struct {
	ID          string
	RecordType  HealthRecordType
	RecordDate  time.Time
	SubjectType SubjectType
	SubjectID   string
	Description string
	Cost        *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GrowthRecord は子豚の体重測定記録を表す。
// ADGは直前の測定記録から導出される日増体量で、初回測定ではnil。
type GrowthRecord struct {
	ID         string
	PigletID   string
	RecordDate time.Time
	Weight     float64
	ADG        *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FeedConsumption は豚房単位の給餌記録を表す。
type FeedConsumption struct {
	ID         string
	RecordDate time.Time
	PenID      string
	FeedType   string
	Quantity   float64
	Cost       *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
