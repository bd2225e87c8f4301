// Package console runs the terminal REPL front-end.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/sushrutsadana/movieagent2/internal/agent"
)

const historyFile = ".movieagent_history"

// Run reads one question per turn until the user exits. Each answer is
// printed unchanged; a failed turn prints the error and keeps the loop alive.
func Run(ctx context.Context, agentSvc *agent.Service, maxHistory int) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := filepath.Join(os.TempDir(), historyFile)
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
	}
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("Welcome to the Movie Chatbot! Type 'exit' to quit.")

	var history []agent.Turn
	for {
		input, err := line.Prompt("Ask me about movies, genres, or cinemas: ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Println("Goodbye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		question := strings.TrimSpace(input)
		if question == "" {
			continue
		}
		if q := strings.ToLower(question); q == "exit" || q == "quit" {
			fmt.Println("Goodbye!")
			return nil
		}
		line.AppendHistory(question)

		response, err := agentSvc.Chat(ctx, question, history)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		history = append(history, agent.Turn{User: question, Bot: response})
		if maxHistory > 0 && len(history) > maxHistory {
			history = history[len(history)-maxHistory:]
		}
		fmt.Println(response)
	}
}
