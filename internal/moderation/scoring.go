package moderation

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"BracOut-backend/internal/model"
)

// Score bounds and the auto-block threshold. There is exactly one clamp
// and one threshold table; every mutation path goes through ScoreKeeper.
const (
	MinScore           = 0
	MaxScore           = 100
	AutoBlockThreshold = 50
)

// ScoreKeeper is the single source of truth for a user's cumulative spam
// score and the resulting block state. Every delta is recorded as a
// ScoreAudit row.
type ScoreKeeper struct {
	DB *gorm.DB
}

// NewScoreKeeper creates a ScoreKeeper bound to db.
func NewScoreKeeper(db *gorm.DB) *ScoreKeeper {
	return &ScoreKeeper{DB: db}
}

// Apply adds delta to the user's persisted score, clamped into
// [MinScore, MaxScore], blocks the user once the total reaches
// AutoBlockThreshold, and appends an audit row. actor is nil for
// automatic detection paths.
func (k *ScoreKeeper) Apply(userID uuid.UUID, reason string, delta int, actor *uuid.UUID) error {
	if delta == 0 {
		return nil
	}
	return k.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		return k.update(tx, &user, reason, user.SpamScore+delta, actor)
	})
}

// Override sets the user's score to an explicit value in
// [MinScore, MaxScore]. Used by the admin console; always audited.
func (k *ScoreKeeper) Override(userID uuid.UUID, score int, actor uuid.UUID, reason string) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("score %d outside [%d, %d]", score, MinScore, MaxScore)
	}
	return k.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		return k.update(tx, &user, reason, score, &actor)
	})
}

func (k *ScoreKeeper) update(tx *gorm.DB, user *model.User, reason string, total int, actor *uuid.UUID) error {
	if total > MaxScore {
		total = MaxScore
	}
	if total < MinScore {
		total = MinScore
	}
	delta := total - user.SpamScore

	user.SpamScore = total
	if total >= AutoBlockThreshold {
		user.IsBlocked = true
	}
	if err := tx.Model(&model.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"spam_score": user.SpamScore,
			"is_blocked": user.IsBlocked,
		}).Error; err != nil {
		return err
	}

	audit := model.ScoreAudit{
		UserID:     user.ID,
		Reason:     reason,
		Delta:      delta,
		TotalAfter: total,
		ActorID:    actor,
	}
	return tx.Create(&audit).Error
}

// ScanText scores a text blob and, when a user is supplied and the score is
// positive, persists the delta. Detection is soft: any internal error is
// logged and a zero result returned so the surrounding request never fails
// because of the scanner.
func (k *ScoreKeeper) ScanText(userID *uuid.UUID, text string) TextResult {
	result := AnalyzeText(text)
	if userID != nil && result.Score > 0 {
		if err := k.Apply(*userID, "text pattern match", result.Score, nil); err != nil {
			log.Printf("spam score update failed for %s: %v", userID, err)
		}
	}
	return result
}

// ScanProfile evaluates a user's links and message history and persists the
// delta. Same soft-failure behavior as ScanText.
func (k *ScoreKeeper) ScanProfile(user model.User) ProfileResult {
	var messages []string
	if err := k.DB.Model(&model.Message{}).
		Where("sender_id = ?", user.ID).
		Order("id ASC").
		Pluck("body", &messages).Error; err != nil {
		log.Printf("message history lookup failed for %s: %v", user.ID, err)
		return ProfileResult{Threshold: ProfileSpamThreshold}
	}

	result := EvaluateProfile(ProfileInput{
		Links:       user.Links,
		LinkedinURL: user.LinkedinURL,
		GithubURL:   user.GithubURL,
		Messages:    messages,
	})
	if result.Score > 0 {
		if err := k.Apply(user.ID, "profile anomaly scan", result.Score, nil); err != nil {
			log.Printf("spam score update failed for %s: %v", user.ID, err)
		}
	}
	return result
}
