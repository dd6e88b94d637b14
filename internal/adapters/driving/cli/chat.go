package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/maestro-chat/maestro/internal/core/domain"
)

var (
	chatCharacter   string
	chatTemperature float64
	chatNoStream    bool
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Bold(true)
	personaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a persona in the terminal",
	Long: `Starts an interactive chat session against the local pipeline.

Each answer is grounded on passages retrieved from the vector index
for the selected character. Type a question and press Enter; use
/quit to leave or /reset to clear the conversation history.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatCharacter, "character", "c", "", "persona to chat with (default from config)")
	chatCmd.Flags().Float64VarP(&chatTemperature, "temperature", "t", -1, "sampling temperature override (0 to 2)")
	chatCmd.Flags().BoolVar(&chatNoStream, "no-stream", false, "wait for the full answer instead of streaming")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	character := chatCharacter
	if character == "" && appConfig != nil && len(appConfig.Chat.Namespaces) > 0 {
		character = appConfig.Chat.Namespaces[0]
	}

	cmd.Printf("%s\n", personaStyle.Render("maestro chat"))
	cmd.Printf("%s\n\n", faintStyle.Render(fmt.Sprintf("character: %s  (/quit to exit, /reset to clear)", character)))

	var history []domain.Message
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		cmd.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit", line == "/exit":
			return nil
		case line == "/reset":
			history = nil
			cmd.Println(faintStyle.Render("history cleared"))
			continue
		}

		history = append(history, domain.Message{Role: domain.RoleUser, Content: line})

		req := domain.ChatRequest{
			Character: character,
			Messages:  history,
			Stream:    !chatNoStream,
		}
		if chatTemperature >= 0 {
			temp := chatTemperature
			req.Temperature = &temp
		}

		answer, err := askOnce(cmd, req)
		if err != nil {
			// Drop the failed turn so a retry does not duplicate it.
			history = history[:len(history)-1]
			cmd.PrintErrf("error: %v\n", err)
			continue
		}

		history = append(history, domain.Message{Role: domain.RoleAssistant, Content: answer})
	}
}

// askOnce sends one turn through the pipeline and returns the full
// assistant answer, printing it as it arrives.
func askOnce(cmd *cobra.Command, req domain.ChatRequest) (string, error) {
	cmd.Print(personaStyle.Render(req.Character + "> "))

	if !req.Stream {
		resp, err := chatService.Chat(cmd.Context(), req)
		if err != nil {
			cmd.Println()
			return "", err
		}
		cmd.Println(resp.Result.Message.Content)
		cmd.Println()
		return resp.Result.Message.Content, nil
	}

	events, err := chatService.ChatStream(cmd.Context(), req)
	if err != nil {
		cmd.Println()
		return "", err
	}

	var answer strings.Builder
	for event := range events {
		switch {
		case event.Err != nil:
			cmd.Println()
			return "", fmt.Errorf("%s: %s", event.Err.Code, event.Err.Message)
		case event.Done:
		case event.Chunk != nil && event.Chunk.Result != nil:
			delta := event.Chunk.Result.Delta.Content
			if delta != "" {
				cmd.Print(delta)
				answer.WriteString(delta)
			}
		}
	}
	cmd.Println()
	cmd.Println()
	return answer.String(), nil
}
