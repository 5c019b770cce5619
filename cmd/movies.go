package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/reelist/internal/models"
	"github.com/desertthunder/reelist/internal/movies"
	"github.com/urfave/cli/v3"
)

// MoviesList prints a user's buckets.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}

	userID, err := svc.userByEmail(ctx, cmd.String("email"))
	if err != nil {
		return err
	}

	buckets, err := svc.reader.List(ctx, userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(buckets, cmd.Bool("pretty"))
	}

	for _, c := range models.Categories {
		entries := buckets.Get(c)
		r.writePlain("%s\n", headerStyle.Render(fmt.Sprintf("%s (%d)", c.Title(), len(entries))))
		if len(entries) == 0 {
			r.writePlain("  %s\n", dimStyle.Render("nothing here yet"))
		}
		for _, e := range entries {
			line := e.Title
			if e.ReleaseDate != "" {
				line += " " + dimStyle.Render("("+e.ReleaseDate+")")
			}
			r.writePlain("  • %s %s\n", line, dimStyle.Render("#"+e.MovieID))
		}
		r.writePlain("\n")
	}
	return nil
}

// MoviesAdd runs a list write for the user, the same way POST /api/movies does.
func (r *Runner) MoviesAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}

	userID, err := svc.userByEmail(ctx, cmd.String("email"))
	if err != nil {
		return err
	}

	payload := movies.Payload{
		MovieID:     movies.NewText(cmd.String("movie-id")),
		Title:       movies.NewText(cmd.String("title")),
		Category:    movies.NewText(cmd.String("category")),
		Poster:      optionalText(cmd, "poster"),
		Overview:    optionalText(cmd, "overview"),
		ReleaseDate: optionalText(cmd, "release-date"),
		Rating:      optionalText(cmd, "rating"),
		Votes:       optionalText(cmd, "votes"),
		Description: optionalText(cmd, "description"),
		Source:      optionalText(cmd, "source"),
	}
	if cmd.IsSet("genre-ids") {
		raw, err := json.Marshal(cmd.String("genre-ids"))
		if err != nil {
			return err
		}
		payload.GenreIDs = raw
	}

	entry, err := svc.writer.Save(ctx, userID, payload)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entry, true)
	}
	return r.writePlain("%s %s → %s\n", okStyle.Render("✓ Saved"), entry.Title, entry.Category.Title())
}

// optionalText reads a flag into a [movies.Text], leaving it absent when the flag was not given.
func optionalText(cmd *cli.Command, name string) movies.Text {
	if !cmd.IsSet(name) {
		return movies.Text{}
	}
	return movies.NewText(cmd.String(name))
}
