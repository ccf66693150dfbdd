package storage

import "time"

// Collection keys in the store. Everything else is a per-kid key owned by the
// reward package.
const (
	KeyKids         = "kids"
	KeyMissions     = "missions"
	KeyTransactions = "transactions"
	KeyLastRefresh  = "lastMissionRefresh"
)

// AIProfile is a static default written once at kid creation.
type AIProfile struct {
	LearningStyle         string   `json:"learningStyle"`
	FinancialPersonality  string   `json:"financialPersonality"`
	EngagementLevel       string   `json:"engagementLevel"`
	PreferredMissionTypes []string `json:"preferredMissionTypes"`
}

// Holding is one stock purchase in a kid's portfolio. The portfolio is
// append-only from the user's perspective.
type Holding struct {
	Symbol      string    `json:"symbol"`
	Shares      float64   `json:"shares"`
	Price       float64   `json:"price"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

// Kid is one child profile. ID is a slug derived from the name at creation and
// is never regenerated, even on rename; it is the foreign key for every other
// entity.
type Kid struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Age               int       `json:"age"`
	Gender            string    `json:"gender"`
	Coins             int       `json:"coins"`
	Stars             int       `json:"stars"`
	RealMoney         float64   `json:"realMoney"`
	Portfolio         []Holding `json:"portfolio"`
	CompletedMissions []string  `json:"completedMissions"`
	AIProfile         AIProfile `json:"aiProfile"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Mission age groups.
const (
	AgeGroupBoth = "both"
	AgeGroupFour = "4+"
	AgeGroupNine = "9+"
)

// Mission statuses.
const (
	MissionActive   = "active"
	MissionInactive = "inactive"
)

// Mission is a task template plus live status. ScheduledDate ("2006-01-02",
// empty = any day) makes a mission one-shot; WeeklyDays (0=Sunday..6=Saturday)
// makes it recur on those weekdays. IsDaily marks missions owned by the daily
// refresh; parent-authored missions keep IsDaily false and survive refreshes.
type Mission struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	AgeGroup      string    `json:"ageGroup"`
	Reward        int       `json:"reward"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	ScheduledDate string    `json:"scheduledDate,omitempty"`
	WeeklyDays    []int     `json:"weeklyDays,omitempty"`
	IsDaily       bool      `json:"isDaily,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Transaction types. Coin amounts for earn/Saved/Spent/Gave; currency amounts
// for Add/Spend.
const (
	TxEarn  = "earn"
	TxAdd   = "Add"
	TxSpend = "Spend"
	TxSaved = "Saved"
	TxSpent = "Spent"
	TxGave  = "Gave"
)

// Transaction is an immutable append-only ledger entry. MissionID is set on
// earn entries so an uncomplete can remove exactly the matching entry; legacy
// entries without it are matched by description.
type Transaction struct {
	ID          string    `json:"id"`
	KidID       string    `json:"kidId"`
	MissionID   string    `json:"missionId,omitempty"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Notes       string    `json:"notes,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
