package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"website-assistant/internal/assistant"
)

func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat in the terminal",
		Long: `Start an interactive chat. Type a question about a company website,
"/reset" to forget the conversation, or "exit" to quit.`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}
	cmd.Flags().String("variant", "", "Assistant variant: "+strings.Join(assistant.VariantNames(), ", "))
	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	variant, _ := cmd.Flags().GetString("variant")
	bot, err := a.Assistant(variant)
	if err != nil {
		return err
	}
	session := assistant.NewSession(bot)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "website-assistant (%s). Type \"exit\" to quit.\n", bot.Variant().Name)

	in := bufio.NewScanner(cmd.InOrStdin())
	in.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "/reset":
			session.Reset()
			fmt.Fprintln(out, "conversation cleared")
			continue
		}

		reply, err := session.Send(cmd.Context(), line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\n%s\n\n", reply)
	}
}
