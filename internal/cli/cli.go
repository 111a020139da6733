// Package cli parses command-line arguments for the voxfill binary.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandVoice   Command = "voice"
	CommandFill    Command = "fill"
	CommandStatus  Command = "status"
	CommandCancel  Command = "cancel"
	CommandDevices Command = "devices"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandVoice:   {},
	CommandFill:    {},
	CommandStatus:  {},
	CommandCancel:  {},
	CommandDevices: {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

type Parsed struct {
	Command      Command
	ConfigPath   string
	DocumentPath string
	FormID       string
	Text         string
	Language     string
	Prompt       string
	ShowHelp     bool
}

// Parse resolves one command plus its flags. Flags may appear on either side
// of the command; exactly one command is accepted.
func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}
	haveCommand := false

	stringFlag := func(name string, args []string, i *int) (string, error) {
		*i++
		if *i >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
			haveCommand = true
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
			haveCommand = true
		case "--config":
			value, err := stringFlag(arg, args, &i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.ConfigPath = value
		case "--document":
			value, err := stringFlag(arg, args, &i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.DocumentPath = value
		case "--form":
			value, err := stringFlag(arg, args, &i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.FormID = value
		case "--text":
			value, err := stringFlag(arg, args, &i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.Text = value
		case "--lang":
			value, err := stringFlag(arg, args, &i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.Language = value
		case "--prompt":
			value, err := stringFlag(arg, args, &i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.Prompt = value
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}
			if haveCommand && parsed.Command != cmd {
				return Parsed{}, fmt.Errorf("multiple commands: %q and %q", parsed.Command, cmd)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			haveCommand = true
		}
	}

	if parsed.Command == CommandFill && !parsed.ShowHelp && strings.TrimSpace(parsed.Text) == "" {
		return Parsed{}, errors.New("fill requires --text")
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [flags] <command>

Commands:
  voice     Run a spoken form-filling session until the form is complete
  fill      Fill a form from text supplied with --text
  status    Print current voice session state
  cancel    Cancel the active voice session
  devices   List available input devices
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

Flags:
  --config PATH     Config file path (default: $XDG_CONFIG_HOME/voxfill/config.conf)
  --document PATH   Forms document path (overrides forms.document)
  --form ID         Form to fill (default: first form in the document)
  --text TEXT       Source text for the fill command
  --lang CODE       Dialogue language: en or de (default: dialogue.language)
  --prompt TEXT     Override the extraction instruction for voice sessions
  -h, --help        Show help
  --version         Show version
`, binaryName)
}
