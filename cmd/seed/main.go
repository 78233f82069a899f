package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ascentra/internal/config"
	"ascentra/internal/loader"
	"ascentra/internal/model"
	"ascentra/internal/repository"
)

func main() {
	name := flag.String("name", "Smartphone Launch Feedback", "study name")
	questionsPath := flag.String("questions", "", "path to questions.json (omit to seed the built-in demo study)")
	responsesPath := flag.String("responses", "", "path to responses.csv")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	var study *model.Study
	if *questionsPath != "" && *responsesPath != "" {
		study, err = loader.LoadStudy(*name, *questionsPath, *responsesPath)
		if err != nil {
			log.Fatalf("Failed to load study: %v", err)
		}
	} else {
		study = demoStudy(*name)
	}

	studyRepo := repository.NewStudyRepo(client.Database(cfg.Database))
	id, err := studyRepo.Create(ctx, study)
	if err != nil {
		log.Fatalf("Failed to insert study: %v", err)
	}

	fmt.Printf("Successfully created study '%s' (%s) with %d questions and %d respondents\n",
		study.Name, id, len(study.Questions), len(study.Rows))
}

func demoStudy(name string) *model.Study {
	return &model.Study{
		Name: name,
		Questions: []model.Question{
			{
				ID:      "q_model",
				Type:    model.QuestionSingleChoice,
				Label:   "Which model did you purchase?",
				Options: []string{"standard", "pro", "ultra"},
			},
			{
				ID:      "q_features",
				Type:    model.QuestionMultiChoice,
				Label:   "Which features do you use daily?",
				Options: []string{"camera", "battery", "display", "assistant"},
			},
			{
				ID:      "q_satisfaction",
				Type:    model.QuestionOrdinalScale,
				Label:   "How satisfied are you overall?",
				Options: []string{"1", "2", "3", "4", "5"},
			},
			{
				ID:         "q_recommend",
				Type:       model.QuestionOrdinalScale,
				Label:      "How likely are you to recommend this phone?",
				Options:    []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
				IsNPSScale: true,
			},
			{
				ID:    "q_screen_hours",
				Type:  model.QuestionNumeric,
				Label: "Hours of screen time per day",
			},
		},
		Header: []string{"q_model", "q_features", "q_satisfaction", "q_recommend", "q_screen_hours"},
		Rows: [][]string{
			{"standard", "camera;battery", "4", "9", "3.5"},
			{"pro", "camera", "5", "10", "5"},
			{"pro", "display;assistant", "3", "7", "6.5"},
			{"ultra", "camera;display", "5", "9", "4"},
			{"standard", "", "2", "4", "2"},
			{"ultra", "battery", "4", "8", "7"},
			{"standard", "camera;battery;display", "3", "6", "3"},
			{"pro", "assistant", "5", "10", "8"},
			{"standard", "battery", "1", "2", "1.5"},
			{"ultra", "camera", "4", "9", ""},
		},
	}
}
