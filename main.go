package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/wifinm/nmclient/internal/config"
	nmlog "github.com/wifinm/nmclient/internal/log"
	"github.com/wifinm/nmclient/nm"
)

var (
	// Version is the version of the application. It is set at build time.
	Version string = "dev"
)

// app holds what every subcommand needs once the root flags are parsed.
type app struct {
	cfg    *config.Config
	out    io.Writer
	logger *slog.Logger

	// newExecutor builds the executor the first time a command needs the
	// client. Tests replace it.
	newExecutor func(cfg *config.Config, logger *slog.Logger) (nm.Executor, error)
	client      *nm.Client
}

func (a *app) getClient() (*nm.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	exec, err := a.newExecutor(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	c, err := nm.New(exec, a.logger)
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

// withClient adapts fn into an ffcli Exec that requires exactly nargs
// positional arguments.
func (a *app) withClient(nargs int, usage string, fn func(args []string, c *nm.Client) error) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		if len(args) != nargs {
			return fmt.Errorf("usage: %s", usage)
		}
		c, err := a.getClient()
		if err != nil {
			return err
		}
		return fn(args, c)
	}
}

func newRootCommand(a *app) *ffcli.Command {
	rootFlagSet := flag.NewFlagSet("nmclient", flag.ContinueOnError)
	a.cfg = config.RegisterFlags(rootFlagSet)

	scanFlagSet := flag.NewFlagSet("scan", flag.ContinueOnError)
	scanRescan := scanFlagSet.Bool("rescan", false, "ask NetworkManager to rescan before listing")
	scanCmd := &ffcli.Command{
		Name:       "scan",
		ShortUsage: "nmclient scan [--rescan]",
		ShortHelp:  "List visible wifi networks",
		FlagSet:    scanFlagSet,
		Exec: a.withClient(0, "nmclient scan [--rescan]", func(args []string, c *nm.Client) error {
			return runScan(a.out, a.cfg.JSON, *scanRescan, c)
		}),
	}

	statusCmd := &ffcli.Command{
		Name:      "status",
		ShortHelp: "Show the state of the ethernet and wifi interfaces",
		Exec: a.withClient(0, "nmclient status", func(args []string, c *nm.Client) error {
			return runStatus(a.out, a.cfg.JSON, c)
		}),
	}

	listCmd := &ffcli.Command{
		Name:      "list",
		ShortHelp: "List saved connection profiles",
		Exec: a.withClient(0, "nmclient list", func(args []string, c *nm.Client) error {
			return runList(a.out, a.cfg.JSON, c)
		}),
	}

	activeCmd := &ffcli.Command{
		Name:      "active",
		ShortHelp: "List active connections",
		Exec: a.withClient(0, "nmclient active", func(args []string, c *nm.Client) error {
			return runActive(a.out, a.cfg.JSON, c)
		}),
	}

	interfacesCmd := &ffcli.Command{
		Name:      "interfaces",
		ShortHelp: "List the ethernet and wifi devices",
		Exec: a.withClient(0, "nmclient interfaces", func(args []string, c *nm.Client) error {
			return runInterfaces(a.out, a.cfg.JSON, c)
		}),
	}

	showCmd := &ffcli.Command{
		Name:       "show",
		ShortUsage: "nmclient show <name|uuid>",
		ShortHelp:  "Show the settings of a connection profile",
		Exec: a.withClient(1, "nmclient show <name|uuid>", func(args []string, c *nm.Client) error {
			return runShow(a.out, a.cfg.JSON, args[0], c)
		}),
	}

	var update settingsUpdate
	setFlagSet := flag.NewFlagSet("set", flag.ContinueOnError)
	setFlagSet.StringVar(&update.Method, "method", "", "ipv4 method: auto or manual")
	setFlagSet.StringVar(&update.IP, "ip", "", "ipv4 address, optionally with a /prefix (default /24)")
	setFlagSet.StringVar(&update.Gateway, "gateway", "", "ipv4 gateway")
	setFlagSet.StringVar(&update.DNS, "dns", "", "comma separated DNS servers")
	setFlagSet.StringVar(&update.PSK, "psk", "", "new wifi passphrase")
	setCmd := &ffcli.Command{
		Name:       "set",
		ShortUsage: "nmclient set [flags] <name|uuid>",
		ShortHelp:  "Change the ipv4 settings or passphrase of a connection profile",
		FlagSet:    setFlagSet,
		Exec: a.withClient(1, "nmclient set [flags] <name|uuid>", func(args []string, c *nm.Client) error {
			return runSet(a.out, args[0], update, c)
		}),
	}

	deleteCmd := &ffcli.Command{
		Name:       "delete",
		ShortUsage: "nmclient delete <name|uuid>",
		ShortHelp:  "Delete a connection profile",
		Exec: a.withClient(1, "nmclient delete <name|uuid>", func(args []string, c *nm.Client) error {
			return runDelete(a.out, args[0], c)
		}),
	}

	clearCmd := &ffcli.Command{
		Name:       "clear",
		ShortUsage: "nmclient clear <substring>",
		ShortHelp:  "Delete every connection profile whose name contains substring",
		Exec: a.withClient(1, "nmclient clear <substring>", func(args []string, c *nm.Client) error {
			return runClear(a.out, args[0], c)
		}),
	}

	connectFlagSet := flag.NewFlagSet("connect", flag.ContinueOnError)
	connectPSK := connectFlagSet.String("psk", "", "passphrase for the network")
	connectCmd := &ffcli.Command{
		Name:       "connect",
		ShortUsage: "nmclient connect [--psk <passphrase>] <ssid>",
		ShortHelp:  "Connect to a wifi network",
		FlagSet:    connectFlagSet,
		Exec: a.withClient(1, "nmclient connect [--psk <passphrase>] <ssid>", func(args []string, c *nm.Client) error {
			return runConnect(a.out, args[0], *connectPSK, c)
		}),
	}

	disconnectCmd := &ffcli.Command{
		Name:       "disconnect",
		ShortUsage: "nmclient disconnect <ethernet|wifi>",
		ShortHelp:  "Disconnect an interface",
		Exec: a.withClient(1, "nmclient disconnect <ethernet|wifi>", func(args []string, c *nm.Client) error {
			return runDisconnect(a.out, args[0], c)
		}),
	}

	resetRadioCmd := &ffcli.Command{
		Name:      "reset-radio",
		ShortHelp: "Turn the wifi radio off and on again",
		Exec: a.withClient(0, "nmclient reset-radio", func(args []string, c *nm.Client) error {
			return runResetRadio(a.out, c)
		}),
	}

	wifiConfiguredCmd := &ffcli.Command{
		Name:      "wifi-configured",
		ShortHelp: "Report whether a wifi device exists",
		Exec: a.withClient(0, "nmclient wifi-configured", func(args []string, c *nm.Client) error {
			return runBool(a.out, a.cfg.JSON, c.IsWifiConfigured())
		}),
	}

	deviceActiveCmd := &ffcli.Command{
		Name:       "device-active",
		ShortUsage: "nmclient device-active <device>",
		ShortHelp:  "Report whether a device is connected",
		Exec: a.withClient(1, "nmclient device-active <device>", func(args []string, c *nm.Client) error {
			return runBool(a.out, a.cfg.JSON, c.IsDeviceActive(args[0]))
		}),
	}

	qrFlagSet := flag.NewFlagSet("qr", flag.ContinueOnError)
	qrPSK := qrFlagSet.String("psk", "", "passphrase to embed in the code")
	qrCmd := &ffcli.Command{
		Name:       "qr",
		ShortUsage: "nmclient qr [--psk <passphrase>] <ssid>",
		ShortHelp:  "Print a QR code for joining a visible wifi network",
		FlagSet:    qrFlagSet,
		Exec: a.withClient(1, "nmclient qr [--psk <passphrase>] <ssid>", func(args []string, c *nm.Client) error {
			return runQR(a.out, args[0], *qrPSK, c)
		}),
	}

	versionCmd := &ffcli.Command{
		Name:      "version",
		ShortHelp: "Print the nmclient and nmcli versions",
		Exec: a.withClient(0, "nmclient version", func(args []string, c *nm.Client) error {
			return runVersion(a.out, a.cfg.JSON, c)
		}),
	}

	return &ffcli.Command{
		Name:       "nmclient",
		ShortUsage: "nmclient [flags] <subcommand> [args...]",
		FlagSet:    rootFlagSet,
		Options:    config.Options(),
		Subcommands: []*ffcli.Command{
			scanCmd, statusCmd, listCmd, activeCmd, interfacesCmd,
			showCmd, setCmd, deleteCmd, clearCmd,
			connectCmd, disconnectCmd, resetRadioCmd,
			wifiConfiguredCmd, deviceActiveCmd, qrCmd, versionCmd,
		},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}
}

// main is the entry point of the application
func main() {
	a := &app{
		out:         os.Stdout,
		newExecutor: GetExecutor,
	}
	root := newRootCommand(a)

	if err := root.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		os.Exit(2)
	}

	if err := a.cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	level := a.cfg.Level()
	a.logger = nmlog.Init(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := root.Run(context.Background()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		// The trace hidden by the log level usually explains the failure.
		nmlog.Replay(os.Stderr, level)
		os.Exit(1)
	}
}
