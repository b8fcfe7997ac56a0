package main

import (
	"context"
	"strings"

	"flightrec/internal/dispatch"
)

// commandTable is the nested command tree resolved by dispatch.
func (c *commandContext) commandTable() dispatch.Node {
	return dispatch.Group(map[string]dispatch.Node{
		"info": dispatch.Handler(c.runInfo),
		"tracks": dispatch.Group(map[string]dispatch.Node{
			"list":     dispatch.Handler(c.runTracksList),
			"download": dispatch.Handler(c.runTracksDownload),
		}, c.runTracksList),
		"waypoints": dispatch.Group(map[string]dispatch.Node{
			"list":   dispatch.Handler(c.runWaypointsList),
			"upload": dispatch.Handler(c.runWaypointsUpload),
			"delete": dispatch.Handler(c.runWaypointsDelete),
			"clear":  dispatch.Handler(c.runWaypointsClear),
		}, c.runWaypointsList),
		"routes": dispatch.Handler(c.runRoutes),
		"ctr":    dispatch.Handler(c.runAirspaces),
		"get":    dispatch.Handler(c.runGet),
		"set":    dispatch.Handler(c.runSet),
		"firmware": dispatch.Group(map[string]dispatch.Node{
			"flash": dispatch.Handler(c.runFirmwareFlash),
		}, nil),
		"history": dispatch.Group(map[string]dispatch.Node{
			"show": dispatch.Handler(c.runHistoryShow),
		}, c.runHistoryList),
		"config": dispatch.Group(map[string]dispatch.Node{
			"init": dispatch.Handler(c.runConfigInit),
			"show": dispatch.Handler(c.runConfigShow),
		}, nil),
		"doctor": dispatch.Handler(c.runDoctor),
		"logs":   dispatch.Handler(c.runLogs),
		"emulator": dispatch.Group(map[string]dispatch.Node{
			"init": dispatch.Handler(c.runEmulatorInit),
		}, nil),
	}, c.runDefault)
}

func (c *commandContext) dispatch(ctx context.Context, args []string) error {
	return dispatch.Dispatch(ctx, c.commandTable(), args)
}

// runDefault treats a bare waypoint file as "waypoints upload" and anything
// else as an unknown command. Without arguments it prints the command list.
func (c *commandContext) runDefault(ctx context.Context, args []string) error {
	if len(args) == 0 {
		_, err := c.stdout.Write([]byte("Usage: flightrec [flags] <command> [args...]\n\nCommands:\n" + commandUsage()))
		return err
	}
	if strings.HasSuffix(strings.ToLower(args[0]), ".json") {
		return c.runWaypointsUpload(ctx, args)
	}
	return dispatch.NewNotFoundError(nil, args[0], dispatch.Names(c.commandTable()))
}

func commandUsage() string {
	var b strings.Builder
	table := (&commandContext{}).commandTable()
	dispatch.Walk(table, func(path []string) {
		if len(path) == 0 {
			return
		}
		b.WriteString("  ")
		b.WriteString(strings.Join(path, " "))
		b.WriteByte('\n')
	})
	return b.String()
}
