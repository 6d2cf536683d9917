package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [path]",
	Short: "Ask questions about the résumé",
	Long: `Starts a conversation with the AI proxy. The résumé is sent as context
with every turn. Reads one question per line from stdin; an empty line
or EOF ends the conversation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

var chatModel string

func init() {
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "Model tier (lite, standard, advanced) or model name")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	st, err := loadDocument(documentPath(args))
	if err != nil {
		return err
	}
	resume, err := json.MarshalIndent(st.Snapshot(), "", "  ")
	if err != nil {
		return err
	}

	client := proxyClient()
	history := []types.ChatMessage{{
		Role:    "system",
		Content: "You are a career coach helping the user improve this résumé:\n\n" + string(resume),
	}}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}

		history = append(history, types.ChatMessage{Role: "user", Content: question})
		reply, err := client.Chat(cmd.Context(), history, modelFlag(chatModel))
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}
		history = append(history, types.ChatMessage{Role: "assistant", Content: reply})
		fmt.Fprintf(out, "%s\n\n", reply)
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
