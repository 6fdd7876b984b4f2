package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"monarch-says/internal/config"
	"monarch-says/internal/db"
	"monarch-says/internal/questions"
)

func main() {
	filePath := flag.String("file", "questions.tsv", "path to question bank (.tsv or .toml)")
	tomlOut := flag.String("toml-out", "", "convert the bank to TOML at this path instead of loading it")
	flag.Parse()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("failed to read question bank: %v", err)
	}

	var bank []db.Question
	switch strings.ToLower(filepath.Ext(*filePath)) {
	case ".tsv":
		bank, err = questions.ParseTSV(string(data))
	case ".toml":
		bank, err = questions.ParseTOML(data)
	default:
		log.Fatalf("unsupported question bank format: %s", filepath.Ext(*filePath))
	}
	if err != nil {
		log.Fatalf("failed to parse question bank: %v", err)
	}
	if len(bank) == 0 {
		log.Fatal("question bank is empty")
	}

	if *tomlOut != "" {
		out, err := questions.ToTOML(bank)
		if err != nil {
			log.Fatalf("failed to encode TOML: %v", err)
		}
		if err := os.WriteFile(*tomlOut, out, 0o644); err != nil {
			log.Fatalf("failed to write TOML: %v", err)
		}
		log.Printf("wrote %d questions to %s", len(bank), *tomlOut)
		return
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	loaded, err := db.UpsertQuestions(conn, bank)
	if err != nil {
		log.Fatalf("failed to load questions: %v", err)
	}
	log.Printf("loaded %d questions", loaded)
}
