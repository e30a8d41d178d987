package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	"github.com/kejionglee/iphall-landing-page/api"
	"github.com/spf13/cobra"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run a quotation conversation in the terminal",
	Long: `Run a quotation conversation on stdin/stdout.

Type "exit" or "quit" to leave, "start over" to reset the selection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return runChat(cmd.Context(), a.engine, chatSessionID, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "terminal", "conversation id")
	rootCmd.AddCommand(chatCmd)
}

func runChat(ctx context.Context, assistant api.Assistant, sessionID string, in io.Reader, out io.Writer) error {
	resp, err := assistant.HandleMessage(ctx, contractx.TurnRequest{SessionID: sessionID, Command: contractx.CommandOpen})
	if err != nil {
		return err
	}
	printTurn(out, resp)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(text) {
		case "exit", "quit":
			return nil
		}

		resp, err := assistant.HandleMessage(ctx, contractx.TurnRequest{SessionID: sessionID, Text: text})
		if err != nil {
			return err
		}
		printTurn(out, resp)
	}
}

func printTurn(out io.Writer, resp contractx.TurnResponse) {
	fmt.Fprintf(out, "\n%s\n", resp.Reply)
	if len(resp.Suggestions) > 0 {
		fmt.Fprintf(out, "[%s]\n", strings.Join(resp.Suggestions, " | "))
	}
}
