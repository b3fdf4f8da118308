package main

import (
	"fmt"
	"strings"

	cl "shopsim/internal/cli"
	"shopsim/internal/game"
	"shopsim/internal/sim"
	"shopsim/internal/store"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
	faint   = color.New(color.Faint)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func renderResult(res sim.Result) {
	accent.Printf("\n== ROUND (seed %d) ==\n", res.Seed)
	renderView("Start", res.Initial)

	fmt.Println()
	accent.Println("Steps")
	fmt.Printf("%-5s %-20s %6s  %s\n", "#", "ACTION", "GOLD", "TEAM")
	prevGold := res.Initial.Gold
	for _, s := range res.Steps {
		action := s.Action.String()
		if s.Done {
			action = faint.Sprintf("%-20s", action+" (end)")
		} else {
			action = fmt.Sprintf("%-20s", action)
		}
		fmt.Printf("%-5d %s %6s  %s\n", s.Index, action, colorizeGold(s.Shop.Gold, prevGold), formatTeam(s.Shop.Team))
		prevGold = s.Shop.Gold
	}

	fmt.Println()
	renderView("Final", res.Final)
	fmt.Printf("Applied: %d of %d steps\n", res.Applied(), len(res.Steps))
	if res.Truncated {
		printWarn("Round hit the step cap before the shop finished.")
	}
	fmt.Println()
}

func renderView(title string, v game.View) {
	accent.Println(title)
	fmt.Printf("Gold:    %d\n", v.Gold)
	fmt.Printf("Team:    %s\n", formatTeam(v.Team))
	offers := make([]string, 0, len(v.Friends))
	for _, f := range v.Friends {
		offers = append(offers, formatFriend(f))
	}
	fmt.Printf("Friends: %s\n", strings.Join(offers, " | "))
	foods := make([]string, 0, len(v.Foods))
	for _, f := range v.Foods {
		if f == game.NoFood {
			foods = append(foods, faint.Sprint("-"))
			continue
		}
		foods = append(foods, f.String())
	}
	fmt.Printf("Foods:   %s\n", strings.Join(foods, " | "))
}

func renderSummaries(rows []store.Summary) {
	accent.Println("\n== RUNS ==")
	if len(rows) == 0 {
		printInfo("No runs stored yet.")
		return
	}
	fmt.Printf("%-36s %-20s %20s %6s %8s %5s %-9s\n", "ID", "CREATED", "SEED", "STEPS", "APPLIED", "GOLD", "TRUNCATED")
	for _, r := range rows {
		truncated := "no"
		if r.Truncated {
			truncated = warn.Sprint("yes")
		}
		fmt.Printf("%-36s %-20s %20d %6d %8d %5d %-9s\n",
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Seed,
			r.StepCount,
			r.AppliedCount,
			r.FinalGold,
			truncated,
		)
	}
	fmt.Println()
}

func renderCatalog(species []cl.CatalogEntry, foods []string) {
	accent.Println("\n== CATALOG ==")
	fmt.Printf("%-10s %6s %6s\n", "SPECIES", "ATTACK", "HEALTH")
	for _, s := range species {
		fmt.Printf("%-10s %6d %6d\n", s.Species, s.Attack, s.Health)
	}
	fmt.Println()
	fmt.Printf("Foods: %s\n\n", strings.Join(foods, ", "))
}

func formatTeam(team [game.TeamSize]*game.Friend) string {
	parts := make([]string, 0, len(team))
	for _, f := range team {
		parts = append(parts, formatFriend(f))
	}
	return strings.Join(parts, " | ")
}

// formatFriend renders attack/health like the in-game cards.
func formatFriend(f *game.Friend) string {
	if f == nil {
		return faint.Sprint("-")
	}
	text := fmt.Sprintf("%s %d/%d L%d", f.Species, f.Attack, f.Health, f.Level())
	if f.Modifier != game.NoModifier {
		text += " +" + f.Modifier.String()
	}
	return text
}

func colorizeGold(gold, prev int) string {
	text := fmt.Sprintf("%d", gold)
	switch {
	case gold > prev:
		return success.Sprintf("%6s", text)
	case gold < prev:
		return danger.Sprintf("%6s", text)
	default:
		return neutral.Sprintf("%6s", text)
	}
}
