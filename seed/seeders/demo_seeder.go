package seeders

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidgate-io/vidgate_api/model"
	"github.com/vidgate-io/vidgate_api/shared"
)

// DemoSeeder installs one demo video with a mix of interaction kinds, so a
// fresh install has something to play against.
type DemoSeeder struct {
	db *gorm.DB
}

func NewDemoSeeder(db *gorm.DB) *DemoSeeder {
	return &DemoSeeder{db: db}
}

const demoVideoTitle = "Introducción al curso"

type demoOption struct {
	text    string
	correct bool
}

type demoInteraction struct {
	typeCode   string
	title      string
	prompt     string
	activation float64
	mandatory  bool
	points     int
	options    []demoOption
}

var demoInteractions = []demoInteraction{
	{
		typeCode:   shared.InteractionTypeQuiz,
		title:      "Primera pregunta",
		prompt:     "¿Cuál es el objetivo principal de este curso?",
		activation: 5,
		mandatory:  true,
		points:     10,
		options: []demoOption{
			{"Aprender los fundamentos", true},
			{"Saltar directamente al final", false},
			{"Ninguna de las anteriores", false},
		},
	},
	{
		typeCode:   shared.InteractionTypePoll,
		title:      "Tu experiencia",
		prompt:     "¿Cuánta experiencia previa tienes con el tema?",
		activation: 30,
		mandatory:  false,
		points:     5,
		options: []demoOption{
			{"Ninguna", false},
			{"Algo", false},
			{"Bastante", false},
		},
	},
	{
		typeCode:   shared.InteractionTypeQuiz,
		title:      "Punto de control",
		prompt:     "¿Qué se mencionó en la sección anterior?",
		activation: 60,
		mandatory:  true,
		points:     10,
		options: []demoOption{
			{"Los requisitos del curso", true},
			{"El examen final", false},
		},
	},
	{
		typeCode:   shared.InteractionTypeSurvey,
		title:      "Valora la introducción",
		prompt:     "¿Qué te ha parecido la introducción?",
		activation: 90,
		mandatory:  false,
		points:     5,
	},
}

func (s *DemoSeeder) SeedDemoVideo() error {
	var existing model.Video
	err := s.db.Where("title = ?", demoVideoTitle).First(&existing).Error
	if err == nil {
		log.Println("Demo video already exists, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	videoID, _ := uuid.NewV7()
	video := model.Video{
		ID:              videoID.String(),
		Title:           demoVideoTitle,
		Description:     "Vídeo de demostración con interacciones de ejemplo",
		DurationSeconds: 120,
		IsActive:        true,
	}
	if err := s.db.Create(&video).Error; err != nil {
		return err
	}

	for _, di := range demoInteractions {
		var itype model.InteractionType
		if err := s.db.Where("code = ?", di.typeCode).First(&itype).Error; err != nil {
			return err
		}

		iid, _ := uuid.NewV7()
		it := model.Interaction{
			ID:                    iid.String(),
			VideoID:               video.ID,
			TypeID:                itype.ID,
			Title:                 di.title,
			Prompt:                di.prompt,
			ActivationTimeSeconds: di.activation,
			IsMandatory:           di.mandatory,
			IsActive:              true,
			Points:                di.points,
		}
		if err := s.db.Create(&it).Error; err != nil {
			return err
		}

		for pos, opt := range di.options {
			oid, _ := uuid.NewV7()
			o := model.InteractionOption{
				ID:            oid.String(),
				InteractionID: it.ID,
				Text:          opt.text,
				IsCorrect:     opt.correct,
				Position:      pos,
			}
			if err := s.db.Create(&o).Error; err != nil {
				return err
			}
		}
	}

	log.Printf("Seeded demo video with %d interactions", len(demoInteractions))
	return nil
}
