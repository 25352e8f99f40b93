package cli

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink/internal/client/api"
)

// Opportunities lists the opportunities board.
func (a *App) Opportunities(ctx context.Context) error {
	opps, err := a.api.Opportunities(ctx)
	if err != nil {
		fmt.Println(errorStyle.Render(api.UserMessage(err)))
		return err
	}

	if len(opps) == 0 {
		fmt.Println(mutedStyle.Render("No opportunities right now."))
		return nil
	}

	for _, o := range opps {
		fmt.Println(promptStyle.Render(o.Title))
		if o.Organization != "" {
			fmt.Println(labelStyle.Render("Org") + o.Organization)
		}
		if o.Deadline != "" {
			fmt.Println(labelStyle.Render("Deadline") + o.Deadline)
		}
		if o.Link != "" {
			fmt.Println(labelStyle.Render("Link") + o.Link)
		}
		if o.Description != "" {
			fmt.Println(mutedStyle.Render(o.Description))
		}
		fmt.Println()
	}
	return nil
}
