package reward

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"coinquest/internal/store"
)

// AvatarPart is a purchasable cosmetic item.
type AvatarPart struct {
	ID    string
	Emoji string
	Name  string
	Cost  int
}

var AvatarParts = map[string][]AvatarPart{
	"faces": {
		{ID: "happy", Emoji: "😊", Name: "Happy", Cost: 0},
		{ID: "cool", Emoji: "😎", Name: "Cool", Cost: 20},
		{ID: "wink", Emoji: "😉", Name: "Wink", Cost: 15},
		{ID: "star_eyes", Emoji: "🤩", Name: "Star Eyes", Cost: 30},
		{ID: "genius", Emoji: "🧠", Name: "Genius", Cost: 50},
	},
	"outfits": {
		{ID: "casual", Emoji: "👕", Name: "Casual", Cost: 0},
		{ID: "superhero", Emoji: "🦸", Name: "Superhero", Cost: 100},
		{ID: "scientist", Emoji: "👨‍🔬", Name: "Scientist", Cost: 75},
		{ID: "astronaut", Emoji: "👨‍🚀", Name: "Astronaut", Cost: 150},
	},
	"accessories": {
		{ID: "none", Emoji: "", Name: "None", Cost: 0},
		{ID: "crown", Emoji: "👑", Name: "Crown", Cost: 80},
		{ID: "glasses", Emoji: "🤓", Name: "Smart Glasses", Cost: 25},
		{ID: "cap", Emoji: "🧢", Name: "Baseball Cap", Cost: 20},
	},
	"pets": {
		{ID: "none", Emoji: "", Name: "No Pet", Cost: 0},
		{ID: "dog", Emoji: "🐕", Name: "Loyal Dog", Cost: 100},
		{ID: "cat", Emoji: "🐱", Name: "Smart Cat", Cost: 90},
		{ID: "robot", Emoji: "🤖", Name: "Robot Buddy", Cost: 200},
		{ID: "dragon", Emoji: "🐉", Name: "Baby Dragon", Cost: 300},
	},
}

// MoodTrigger names an economy event that shifts the avatar's mood.
type MoodTrigger string

const (
	TriggerMissionComplete   MoodTrigger = "mission_complete"
	TriggerAchievementUnlock MoodTrigger = "achievement_unlock"
	TriggerGoodPerformance   MoodTrigger = "good_performance"
	TriggerStreakActive      MoodTrigger = "streak_active"
)

var moodForTrigger = map[MoodTrigger]string{
	TriggerMissionComplete:   "proud",
	TriggerAchievementUnlock: "excited",
	TriggerGoodPerformance:   "happy",
	TriggerStreakActive:      "motivated",
}

// Avatar is a kid's stored cosmetic state.
type Avatar struct {
	Face      string `json:"face"`
	Outfit    string `json:"outfit"`
	Accessory string `json:"accessory"`
	Pet       string `json:"pet"`
	Mood      string `json:"mood"`
	Name      string `json:"name"`
}

func DefaultAvatar() Avatar {
	return Avatar{Face: "happy", Outfit: "casual", Accessory: "none", Pet: "none", Mood: "happy", Name: "My Avatar"}
}

// PetLevel is the growth stage derived from accumulated feed points.
type PetLevel struct {
	Level int
	Name  string
	Bonus string
}

// Avatars stores per-kid cosmetic state, the unlocked-item set, and pet
// growth.
type Avatars struct {
	kv  *store.Store
	log zerolog.Logger
}

func NewAvatars(kv *store.Store, log zerolog.Logger) *Avatars {
	return &Avatars{kv: kv, log: log}
}

func (a *Avatars) Get(ctx context.Context, kidID string) Avatar {
	avatar := DefaultAvatar()
	if _, err := a.kv.GetJSON(ctx, fmt.Sprintf("avatar_%s", kidID), &avatar); err != nil {
		a.log.Debug().Err(err).Str("kid", kidID).Msg("avatar read failed")
		return DefaultAvatar()
	}
	return avatar
}

func (a *Avatars) Save(ctx context.Context, kidID string, avatar Avatar) {
	if err := a.kv.PutJSON(ctx, fmt.Sprintf("avatar_%s", kidID), avatar); err != nil {
		a.log.Debug().Err(err).Str("kid", kidID).Msg("avatar write failed")
	}
}

// UnlockedItems returns the part ids the kid owns. The free defaults are
// always present.
func (a *Avatars) UnlockedItems(ctx context.Context, kidID string) []string {
	items := []string{"happy", "casual", "none"}
	if _, err := a.kv.GetJSON(ctx, fmt.Sprintf("unlocked_items_%s", kidID), &items); err != nil {
		a.log.Debug().Err(err).Str("kid", kidID).Msg("unlocked items read failed")
		return []string{"happy", "casual", "none"}
	}
	return items
}

// UnlockItem adds an item id to the owned set. It reports whether the item
// was newly unlocked; charging coins is the caller's job.
func (a *Avatars) UnlockItem(ctx context.Context, kidID, itemID string) bool {
	items := a.UnlockedItems(ctx, kidID)
	for _, have := range items {
		if have == itemID {
			return false
		}
	}
	items = append(items, itemID)
	if err := a.kv.PutJSON(ctx, fmt.Sprintf("unlocked_items_%s", kidID), items); err != nil {
		a.log.Debug().Err(err).Str("kid", kidID).Msg("unlocked items write failed")
		return false
	}
	return true
}

// SetMood shifts the avatar mood for a trigger. Unknown triggers are ignored.
func (a *Avatars) SetMood(ctx context.Context, kidID string, trigger MoodTrigger) {
	mood, ok := moodForTrigger[trigger]
	if !ok {
		return
	}
	avatar := a.Get(ctx, kidID)
	avatar.Mood = mood
	a.Save(ctx, kidID, avatar)
}

func petGrowthKey(kidID string) string {
	return fmt.Sprintf("pet_growth_%s", kidID)
}

func (a *Avatars) petGrowth(ctx context.Context, kidID string) int {
	raw, err := a.kv.Get(ctx, petGrowthKey(kidID))
	if err != nil || raw == nil {
		return 0
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0
	}
	return n
}

func (a *Avatars) PetLevel(ctx context.Context, kidID string) PetLevel {
	growth := a.petGrowth(ctx, kidID)
	switch {
	case growth < 10:
		return PetLevel{Level: 1, Name: "Baby"}
	case growth < 25:
		return PetLevel{Level: 2, Name: "Young", Bonus: "✨"}
	case growth < 50:
		return PetLevel{Level: 3, Name: "Adult", Bonus: "⭐"}
	default:
		return PetLevel{Level: 4, Name: "Elder", Bonus: "🌟"}
	}
}

func (a *Avatars) FeedPet(ctx context.Context, kidID string, points int) {
	growth := a.petGrowth(ctx, kidID) + points
	if err := a.kv.Put(ctx, petGrowthKey(kidID), []byte(strconv.Itoa(growth))); err != nil {
		a.log.Debug().Err(err).Str("kid", kidID).Msg("pet growth write failed")
	}
}
