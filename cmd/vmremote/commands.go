package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shaban/voicemeeter"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the running Voicemeeter product and version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := a.session.Kind()
			if err != nil {
				return err
			}
			version, err := a.session.Version()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "kind:     %s\n", kind)
			fmt.Fprintf(out, "version:  %s\n", version)
			fmt.Fprintf(out, "channels: %d in / %d out\n", kind.InputChannels(), kind.OutputChannels())
			fmt.Fprintf(out, "session:  %s\n", a.session.ID())
			return nil
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	var (
		asString bool
		ansi     bool
	)
	cmd := &cobra.Command{
		Use:   "get NAME...",
		Short: "Read one or more parameters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range args {
				if !asString {
					v, err := a.session.GetFloat(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s=%s\n", name, formatFloat(v))
					continue
				}
				read := a.session.GetStringW
				if ansi {
					read = a.session.GetString
				}
				v, err := read(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s=%q\n", name, v)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&asString, "string", "s", false, "read string parameters")
	cmd.Flags().BoolVar(&ansi, "ansi", false, "use the ANSI string entry point")
	return cmd
}

func (a *app) setCmd() *cobra.Command {
	var (
		asString bool
		ansi     bool
	)
	cmd := &cobra.Command{
		Use:   "set [flags] NAME VALUE",
		Short: "Write one parameter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, value := args[0], args[1]
			if asString {
				if ansi {
					return a.session.SetString(name, value)
				}
				return a.session.SetStringW(name, value)
			}
			f, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", value, err)
			}
			return a.session.SetFloat(name, float32(f))
		},
	}
	cmd.Flags().BoolVarP(&asString, "string", "s", false, "write a string parameter")
	cmd.Flags().BoolVar(&ansi, "ansi", false, "use the ANSI string entry point")
	// flags go before NAME so that negative values like -12 stay arguments
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *app) scriptCmd() *cobra.Command {
	var (
		file string
		ansi bool
	)
	cmd := &cobra.Command{
		Use:   "script [TEXT]",
		Short: "Apply a parameter script such as \"Strip[0].mute=1;Bus[0].gain=-6\"",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case file != "":
				// #nosec G304 -- the path comes from the operator
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				text = string(data)
			case len(args) == 1:
				text = args[0]
			default:
				return errors.New("script text or --file is required")
			}
			if ansi {
				return a.session.ApplyScript(text)
			}
			return a.session.ApplyScriptW(text)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the script from a file")
	cmd.Flags().BoolVar(&ansi, "ansi", false, "use the ANSI script entry point")
	return cmd
}

func (a *app) devicesCmd() *cobra.Command {
	var (
		dir      string
		typeName string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List audio devices known to the engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var dirs []voicemeeter.Direction
			switch dir {
			case "input":
				dirs = []voicemeeter.Direction{voicemeeter.DeviceInput}
			case "output":
				dirs = []voicemeeter.Direction{voicemeeter.DeviceOutput}
			case "all", "":
				dirs = []voicemeeter.Direction{voicemeeter.DeviceInput, voicemeeter.DeviceOutput}
			default:
				return fmt.Errorf("unknown direction %q (want input, output or all)", dir)
			}

			var all voicemeeter.Devices
			for _, d := range dirs {
				list, err := a.session.Devices(d)
				if err != nil {
					return err
				}
				all = append(all, list...)
			}
			if typeName != "" {
				t, err := parseDeviceType(typeName)
				if err != nil {
					return err
				}
				all = all.ByType(t)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(all)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DIR\tINDEX\tTYPE\tNAME\tHARDWARE ID")
			for _, d := range all {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", d.Direction, d.Index, d.Type, d.Name, d.HardwareID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "all", "input, output or all")
	cmd.Flags().StringVar(&typeName, "type", "", "only list MME, WDM, KS or ASIO devices")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func parseDeviceType(s string) (voicemeeter.DeviceType, error) {
	for _, t := range []voicemeeter.DeviceType{voicemeeter.MME, voicemeeter.WDM, voicemeeter.KS, voicemeeter.ASIO} {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown device type %q", s)
}

func (a *app) levelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level KIND FIRST [COUNT]",
		Short: "Read meter levels (KIND: pre, post, mute, out)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := voicemeeter.ParseLevelKind(args[0])
			if err != nil {
				return err
			}
			first, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid channel %q: %w", args[1], err)
			}
			count := 1
			if len(args) == 3 {
				if count, err = strconv.Atoi(args[2]); err != nil || count < 1 {
					return fmt.Errorf("invalid count %q", args[2])
				}
			}
			levels, err := a.session.GetLevels(kind, first, count)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, v := range levels {
				fmt.Fprintf(out, "%s[%d]=%s\n", kind, first+i, formatFloat(v))
			}
			return nil
		},
	}
}

func (a *app) midiCmd() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "midi",
		Short: "Drain and print pending MIDI input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msgs, err := a.session.GetMidiEvents(size)
			if errors.Is(err, voicemeeter.ErrNoMidiData) {
				fmt.Fprintln(cmd.OutOrStdout(), "no midi data")
				return nil
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range msgs {
				fmt.Fprintf(out, "%s\t%s\n", hex.EncodeToString(m), m)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", voicemeeter.DefaultMidiBufferSize, "receive buffer size in bytes")
	return cmd
}

func (a *app) launchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch [KIND]",
		Short: "Start Voicemeeter (standard, banana or potato)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := a.cfg.ResolvedKind()
			if len(args) == 1 {
				k, err := voicemeeter.ParseKind(args[0])
				if err != nil {
					return err
				}
				kind = k
			}
			if err := a.session.Launch(kind); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "launched %s\n", kind)
			return nil
		},
	}
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
