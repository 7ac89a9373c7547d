package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tessro/gong/internal/alarm"
	"github.com/tessro/gong/internal/client"
	gongerrors "github.com/tessro/gong/internal/errors"
	"github.com/tessro/gong/internal/tui/styles"
	"github.com/tessro/gong/internal/wizard"
)

var (
	alarmDays     string
	alarmDuration int
	alarmTrack    int
	alarmDisabled bool
)

var alarmCmd = &cobra.Command{
	Use:     "alarm",
	Aliases: []string{"alarms"},
	Short:   "Manage the ring schedule",
}

var alarmListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List alarms",
	Args:    cobra.NoArgs,
	RunE:    runAlarmList,
}

var alarmAddCmd = &cobra.Command{
	Use:   "add <HH:MM>",
	Short: "Add an alarm",
	Long: `Add an alarm that rings at HH:MM on the gong's clock.

Examples:
  gong alarm add 07:00                       # every day, track 1, 10s
  gong alarm add 06:30 --days mon,tue,wed    # weekdays listed by name
  gong alarm add 12:00 --track 3 --duration 30`,
	Args: cobra.ExactArgs(1),
	RunE: runAlarmAdd,
}

var alarmRmCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove an alarm",
	Long:    `Remove an alarm by ID. Without an ID, pick one interactively.`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runAlarmRm,
}

var alarmEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable an alarm",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setAlarmActive(cmd, args[0], true) },
}

var alarmDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable an alarm without removing it",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setAlarmActive(cmd, args[0], false) },
}

func init() {
	alarmAddCmd.Flags().StringVar(&alarmDays, "days", "daily", "days to ring: daily, or names/indexes like mon,wed or 0,2 (0 = Monday)")
	alarmAddCmd.Flags().IntVar(&alarmDuration, "duration", 10, "seconds to ring")
	alarmAddCmd.Flags().IntVar(&alarmTrack, "track", alarm.DefaultTrack, "track to play")
	alarmAddCmd.Flags().BoolVar(&alarmDisabled, "disabled", false, "create the alarm disabled")

	alarmCmd.AddCommand(alarmListCmd)
	alarmCmd.AddCommand(alarmAddCmd)
	alarmCmd.AddCommand(alarmRmCmd)
	alarmCmd.AddCommand(alarmEnableCmd)
	alarmCmd.AddCommand(alarmDisableCmd)
	rootCmd.AddCommand(alarmCmd)
}

func runAlarmList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := newClient()

	alarms, err := c.Alarms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list alarms: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{"alarms": alarms})
	}

	var now time.Time
	if clock, err := c.Time(ctx); err == nil {
		if t, err := time.Parse(time.RFC3339, clock.ISO); err == nil {
			now = t
			fmt.Println(styles.Dim.Render("Gong clock " + clock.Time))
		}
	}

	if len(alarms) == 0 {
		fmt.Println("No alarms scheduled")
		return nil
	}

	table := NewTable("ID", "TIME", "DAYS", "TRACK", "RING", "ACTIVE", "NEXT")
	for _, a := range alarms {
		next := "-"
		if a.Active && !now.IsZero() {
			if at, ok := nextRing(a, now); ok {
				next = humanize.RelTime(now, at, "", "from now")
			}
		}
		table.Row(
			strconv.Itoa(a.ID),
			a.Time,
			a.DaysString(),
			strconv.Itoa(a.Track),
			fmt.Sprintf("%ds", a.Duration),
			styles.OnOff(a.Active, "yes", "no"),
			next,
		)
	}
	table.Flush()
	return nil
}

// nextRing finds the next time a rings at or after now, within a week.
func nextRing(a alarm.Alarm, now time.Time) (time.Time, bool) {
	hour, minute, err := alarm.ParseClock(a.Time)
	if err != nil {
		return time.Time{}, false
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	for i := 0; i <= 7; i++ {
		at := day.AddDate(0, 0, i)
		if at.Before(now) {
			continue
		}
		if a.Due(at) {
			return at, true
		}
	}
	return time.Time{}, false
}

func runAlarmAdd(cmd *cobra.Command, args []string) error {
	days, err := alarm.ParseDays(alarmDays)
	if err != nil {
		return err
	}

	a := alarm.Alarm{
		Time:     args[0],
		Days:     days,
		Duration: alarmDuration,
		Track:    alarmTrack,
		Active:   !alarmDisabled,
	}
	if err := a.Validate(); err != nil {
		return err
	}

	created, err := newClient().AddAlarm(cmd.Context(), a)
	if err != nil {
		return fmt.Errorf("failed to add alarm: %w", err)
	}

	if JSONOutput() {
		return printJSON(created)
	}
	fmt.Printf("Added alarm %d at %s (%s)\n", created.ID, styles.Highlight.Render(created.Time), created.DaysString())
	return nil
}

func runAlarmRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := newClient()

	var id int
	if len(args) == 1 {
		var err error
		id, err = parseAlarmID(args[0])
		if err != nil {
			return err
		}
	} else {
		picked, err := pickAlarm(cmd, c)
		if err != nil {
			return err
		}
		if picked == nil {
			fmt.Println("Cancelled")
			return nil
		}
		id = picked.ID
	}

	if err := c.DeleteAlarm(ctx, id); err != nil {
		if client.IsNotFound(err) {
			return fmt.Errorf("%w: alarm %d", gongerrors.ErrAlarmNotFound, id)
		}
		return fmt.Errorf("failed to remove alarm: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{"status": "deleted", "id": id})
	}
	fmt.Printf("Removed alarm %d\n", id)
	return nil
}

func pickAlarm(cmd *cobra.Command, c *client.Client) (*alarm.Alarm, error) {
	interactive := wizard.NewInteractive()
	interactive.SetEnabled(!JSONOutput())
	if !interactive.CanInteract() {
		return nil, fmt.Errorf("alarm ID required")
	}

	alarms, err := c.Alarms(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to list alarms: %w", err)
	}
	if len(alarms) == 0 {
		return nil, fmt.Errorf("no alarms to remove")
	}
	return interactive.PromptAlarm("Remove alarm", alarms)
}

func setAlarmActive(cmd *cobra.Command, arg string, active bool) error {
	id, err := parseAlarmID(arg)
	if err != nil {
		return err
	}

	updated, err := newClient().UpdateAlarm(cmd.Context(), id, alarm.Patch{Active: &active})
	if err != nil {
		if client.IsNotFound(err) {
			return fmt.Errorf("%w: alarm %d", gongerrors.ErrAlarmNotFound, id)
		}
		return fmt.Errorf("failed to update alarm: %w", err)
	}

	if JSONOutput() {
		return printJSON(updated)
	}
	fmt.Printf("Alarm %d %s\n", updated.ID, styles.OnOff(updated.Active, "enabled", "disabled"))
	return nil
}

func parseAlarmID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid alarm ID %q", gongerrors.ErrInvalidAlarm, s)
	}
	return id, nil
}
