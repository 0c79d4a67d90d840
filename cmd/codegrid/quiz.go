package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/codegrid/internal/playback"
	"github.com/vovakirdan/codegrid/internal/quiz"
	"github.com/vovakirdan/codegrid/internal/storage"
)

var (
	quizBank    string
	quizFile    string
	quizAnswers string
	quizForce   bool
)

var quizCmd = &cobra.Command{
	Use:   "quiz [module]",
	Short: "Take the sequence logic quiz",
	Long: `Without arguments, lists the quiz modules and which are unlocked.
Given a module number, asks its questions (or grades --answers) and records
the module as passed when every answer is correct.

Examples:
  codegrid quiz
  codegrid quiz 1
  codegrid quiz 2 --answers q1=a,q2=c`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().StringVar(&quizBank, "bank", "sequence", "Builtin question bank")
	quizCmd.Flags().StringVar(&quizFile, "file", "", "Load the question bank from a YAML file")
	quizCmd.Flags().StringVar(&quizAnswers, "answers", "", "Answers as q1=a,q2=b instead of prompting")
	quizCmd.Flags().BoolVar(&quizForce, "force", false, "Take a module that is not unlocked yet")
}

func runQuiz(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	var bank *quiz.Bank
	if quizFile != "" {
		bank, err = quiz.LoadBank(quizFile)
	} else {
		bank, err = quiz.Find(quizBank)
	}
	if err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return fmt.Errorf("opening progress database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	done, err := store.CompletedLevel(ctx, a.student(), bank.ID)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Printf("%s - %s\n\n", bank.Title, bank.Description)
		for _, m := range bank.Modules {
			state := "locked"
			switch {
			case m.Number <= done:
				state = "passed"
			case m.Number == done+1:
				state = "open"
			}
			fmt.Printf("  %d. %-36s  %d questions  %s\n", m.Number, m.Title, len(m.Questions), state)
		}
		fmt.Println()
		fmt.Println("Run 'codegrid quiz <n>' to take a module.")
		return nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("module must be a number, got %q", args[0])
	}
	m, err := bank.Module(n)
	if err != nil {
		return err
	}
	if !quizForce && n > done+1 {
		return fmt.Errorf("module %d is locked: pass module %d first (or pass --force)", n, done+1)
	}

	var answers quiz.Answers
	if quizAnswers != "" {
		answers, err = quiz.ParseAnswers(quizAnswers)
	} else {
		answers, err = askQuestions(os.Stdin, m)
	}
	if err != nil {
		return err
	}

	g, err := quiz.Submit(ctx, storage.Progress{Store: store, Student: a.student()}, bank, n, answers)
	if err != nil {
		return err
	}

	status := playback.GoalFailed
	if g.Passed {
		status = playback.Passed
	}
	if _, err := store.RecordRun(ctx, storage.RunRecord{
		Student:  a.student(),
		Game:     bank.ID,
		Level:    n,
		Status:   string(status),
		Executed: g.Correct,
		Total:    g.Total,
	}); err != nil {
		a.log.Error("could not record quiz attempt", "error", err)
	}

	fmt.Println()
	for _, it := range g.Items {
		if it.IsCorrect {
			fmt.Printf("  ✓ %s\n", it.Question)
			continue
		}
		chosen := it.Chosen
		if chosen == "" {
			chosen = "-"
		}
		fmt.Printf("  ✗ %s: answered %s, correct %s. %s\n", it.Question, chosen, it.Correct, it.Explanation)
	}
	fmt.Printf("\n%s: %d/%d correct (%d%%)\n", m.Title, g.Correct, g.Total, g.Percent)
	if !g.Passed {
		fmt.Println("Answer every question correctly to unlock the next module.")
		return errNotPassed
	}
	fmt.Println("Module passed!")
	return nil
}

// askQuestions prompts for each question on r until a listed option is given.
func askQuestions(r io.Reader, m *quiz.Module) (quiz.Answers, error) {
	in := bufio.NewScanner(r)
	answers := make(quiz.Answers, len(m.Questions))

	fmt.Printf("%d. %s\n", m.Number, m.Title)
	for i, q := range m.Questions {
		fmt.Printf("\n%d) %s\n", i+1, q.Prompt)
		for _, o := range q.Options {
			fmt.Printf("   %s. %s\n", o.ID, o.Text)
		}
		for {
			fmt.Print("> ")
			if !in.Scan() {
				if err := in.Err(); err != nil {
					return nil, err
				}
				return answers, nil
			}
			choice := strings.TrimSpace(in.Text())
			if opt, ok := q.Option(choice); ok {
				answers[q.ID] = opt.ID
				break
			}
			fmt.Println("   Pick one of the listed options.")
		}
	}
	return answers, nil
}
