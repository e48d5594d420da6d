package seeders

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidgate-io/vidgate_api/model"
	"github.com/vidgate-io/vidgate_api/shared"
)

// TypeSeeder installs the interaction type catalog.
type TypeSeeder struct {
	db *gorm.DB
}

func NewTypeSeeder(db *gorm.DB) *TypeSeeder {
	return &TypeSeeder{db: db}
}

var typeNames = map[string]struct {
	name        string
	description string
}{
	shared.InteractionTypeQuiz:       {"Quiz", "Multiple choice question with correct answers"},
	shared.InteractionTypePoll:       {"Poll", "Opinion poll with no wrong answer"},
	shared.InteractionTypeVote:       {"Vote", "Single choice vote"},
	shared.InteractionTypeSurvey:     {"Survey", "Rating or free opinion survey"},
	shared.InteractionTypeRating:     {"Rating", "Scale rating selection"},
	shared.InteractionTypeFreeText:   {"Open answer", "Free-form text answer"},
	shared.InteractionTypeFillBlank:  {"Fill in the blanks", "Ordered blank completion"},
	shared.InteractionTypeDragDrop:   {"Drag and drop", "Client-side drag and drop activity"},
	shared.InteractionTypePointClick: {"Point and click", "Client-side hotspot activity"},
}

func (s *TypeSeeder) SeedTypes() error {
	for _, code := range shared.InteractionTypeCodes {
		meta := typeNames[code]

		var existing model.InteractionType
		err := s.db.Where("code = ?", code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		id, _ := uuid.NewV7()
		t := model.InteractionType{
			ID:          id.String(),
			Code:        code,
			Name:        meta.name,
			Description: meta.description,
			IsActive:    true,
		}
		if err := s.db.Create(&t).Error; err != nil {
			return err
		}
		log.Printf("Seeded interaction type: %s", code)
	}
	return nil
}
