package call

import (
	"fmt"
	"github.com/spf13/cobra"
	"strconv"
)

var (
	addCmd = &cobra.Command{
		Use:   "add [a] [b]",
		Short: "Adds two numbers on the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseInt32(args[0])
			if err != nil {
				return err
			}
			b, err := parseInt32(args[1])
			if err != nil {
				return err
			}
			if sum, err := svc.Add(a, b); err != nil {
				return err
			} else {
				fmt.Printf("%d\n", sum)
			}
			return nil
		},
	}
	describeCmd = &cobra.Command{
		Use:   "describe [subject] [value]",
		Short: "Renders a sentence from a subject and a value on the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := args[0]
			value, err := parseInt32(args[1])
			if err != nil {
				return err
			}
			if text, err := svc.Describe(subject, value); err != nil {
				return err
			} else {
				fmt.Println(text)
			}
			return nil
		},
	}
	echoCmd = &cobra.Command{
		Use:   "echo [payload]",
		Short: "Sends a payload to the server and prints the echoed bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if echoed, err := svc.Echo([]byte(args[0])); err != nil {
				return err
			} else {
				fmt.Printf("%s\n", echoed)
			}
			return nil
		},
	}
	failCmd = &cobra.Command{
		Use:   "fail [message]",
		Short: "Invokes the always-failing method and prints the returned error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the remote error is the expected result here, not a CLI failure
			if err := svc.Fail(args[0]); err != nil {
				fmt.Printf("remote error: %v\n", err)
				return nil
			}
			return fmt.Errorf("expected an error from the server, got none")
		},
	}
)

// parseInt32 parses a decimal command line argument
func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%q must be a number: %w", s, err)
	}
	return int32(v), nil
}
