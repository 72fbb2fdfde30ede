// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command manager is the operator CLI for publishing and retiring chapters.
//
// Usage:
//
//	manager add-chapter -manga <id> -number <n> [-status 0|1] -file <path>
//	manager delete-chapter -id <chapter id>
//
// API_BASE_URL and API_TOKEN point the CLI at the catalog API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/taibuivan/mangaonline/internal/core/chapter"
	"github.com/taibuivan/mangaonline/internal/manager"
	"github.com/taibuivan/mangaonline/internal/platform/config"
)

const usage = `usage:
  manager add-chapter -manga <id> -number <n> [-status 0|1] -file <path>
  manager delete-chapter -id <chapter id>`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := manager.NewClient(manager.ClientConfig{
		BaseURL:        cfg.APIBaseURL,
		Token:          cfg.APIToken,
		RequestTimeout: cfg.RequestTimeout,
		UploadTimeout:  cfg.UploadTimeout,
	}, log)

	switch os.Args[1] {
	case "add-chapter":
		err = addChapter(ctx, client, log, os.Args[2:])
	case "delete-chapter":
		err = deleteChapter(ctx, client, os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		report(err)
		os.Exit(1)
	}
}

func addChapter(ctx context.Context, client *manager.Client, log *slog.Logger, args []string) error {
	flags := flag.NewFlagSet("add-chapter", flag.ContinueOnError)
	mangaID := flags.String("manga", "", "manga id")
	number := flags.Int("number", 0, "chapter number")
	status := flags.Int("status", int(chapter.StatusFree), "0 for free, 1 for vip")
	path := flags.String("file", "", "chapter file (.pdf, .png, .jpg, .jpeg)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("a chapter file is required")
	}

	content, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("read chapter file: %w", err)
	}

	publisher := manager.NewPublisher(client, log)
	created, err := publisher.Publish(ctx, manager.ChapterDraft{
		MangaID:       *mangaID,
		ChapterNumber: *number,
		Status:        chapter.Status(*status),
	}, manager.File{Name: filepath.Base(*path), Content: content})
	if err != nil {
		return err
	}

	fmt.Printf("created %s (id %s, file %s)\n", created.Name, created.ID, created.FilePDF)
	return nil
}

func deleteChapter(ctx context.Context, client *manager.Client, args []string) error {
	flags := flag.NewFlagSet("delete-chapter", flag.ContinueOnError)
	chapterID := flags.String("id", "", "chapter id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *chapterID == "" {
		return errors.New("a chapter id is required")
	}

	result, err := client.DeleteChapter(ctx, *chapterID)
	if err != nil {
		return err
	}

	fmt.Println(result.Message)
	if result.Chapter != nil {
		fmt.Printf("removed chapter %d of manga %s\n", result.Chapter.ChapterNumber, result.Chapter.MangaID)
	}
	for table, rows := range result.Cleanup {
		fmt.Printf("  %s: %d\n", table, rows)
	}
	return nil
}

// report prints the failure kind so operators can tell a dead API from a rejected request.
func report(err error) {
	var callErr *manager.CallError
	if errors.As(err, &callErr) {
		fmt.Fprintf(os.Stderr, "%s failed [%s]: %v\n", callErr.Operation, callErr.Kind, err)
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
