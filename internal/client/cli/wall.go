package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/campuslink/campuslink/internal/client/api"
)

// Wall dispatches the wall subcommands:
//
//	wall create          — create a wall, print its shareable slug
//	wall card <slug>     — add a contact card to a wall
//	wall show <slug>     — list a wall's cards
func (a *App) Wall(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: wall create | wall card <slug> | wall show <slug>")
		return nil
	}

	switch args[0] {
	case "create":
		return a.wallCreate(ctx)
	case "card":
		if len(args) < 2 {
			fmt.Println("Usage: wall card <slug>")
			return nil
		}
		return a.wallAddCard(ctx, args[1])
	case "show":
		if len(args) < 2 {
			fmt.Println("Usage: wall show <slug>")
			return nil
		}
		return a.wallShow(ctx, args[1])
	default:
		fmt.Println("Unknown wall command:", args[0])
		return nil
	}
}

func (a *App) wallCreate(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Wall title", os.Stdout)
	if err != nil {
		return err
	}

	wall, err := a.api.CreateWall(ctx, title)
	if err != nil {
		fmt.Println(errorStyle.Render(api.UserMessage(err)))
		return err
	}

	fmt.Println(successStyle.Render("Wall created. Share this slug:"))
	fmt.Println(wall.Slug)
	return nil
}

func (a *App) wallAddCard(ctx context.Context, slug string) error {
	name, err := getSimpleText(a.reader, "Your name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Your email", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Phone (optional)", os.Stdout)
	if err != nil {
		return err
	}
	note, err := getSimpleText(a.reader, "Note (optional)", os.Stdout)
	if err != nil {
		return err
	}

	card := api.WallCard{Name: name, Email: email, Phone: phone, Note: note}
	if err := a.api.AddWallCard(ctx, slug, card); err != nil {
		fmt.Println(errorStyle.Render(api.UserMessage(err)))
		return err
	}

	fmt.Println(successStyle.Render("Card added."))
	return nil
}

func (a *App) wallShow(ctx context.Context, slug string) error {
	wall, err := a.api.Wall(ctx, slug)
	if err != nil {
		fmt.Println(errorStyle.Render(api.UserMessage(err)))
		return err
	}

	fmt.Println(promptStyle.Render(wall.Title))
	if len(wall.Cards) == 0 {
		fmt.Println(mutedStyle.Render("No cards yet."))
		return nil
	}
	for _, c := range wall.Cards {
		fmt.Println(labelStyle.Render("Name") + c.Name)
		fmt.Println(labelStyle.Render("Email") + c.Email)
		if c.Phone != "" {
			fmt.Println(labelStyle.Render("Phone") + c.Phone)
		}
		if c.Note != "" {
			fmt.Println(labelStyle.Render("Note") + c.Note)
		}
		fmt.Println()
	}
	return nil
}
