// pairqctl implements an RPC client to manage a pairq server.
package main

import (
	"fmt"
	"net/rpc"
	"os"
	"strconv"

	// using `t` since we only require the RPC types
	"github.com/lambdcalculus/pairq/pkg/logger"
	t "github.com/lambdcalculus/pairq/pkg/rpc"
	"github.com/spf13/pflag"
)

type cmdHandler func(args []string)

type command struct {
	handler     cmdHandler
	args        int
	description string
	usage       string
}

var commands map[string]command

// TODO: detect port from config automatically?
var rpcPort int

func init() {
	logger.SetLogger(logger.NewLoggerOutputs(logger.LevelInfo, logFormat, "stdout"))

	pflag.CommandLine.SetOutput(os.Stdout)
	pflag.CommandLine.Usage = printUsage

	commands = map[string]command{
		"help": {handleHelp, 0, "shows usage information about a command",
			"pairqctl help [command]"},
		"stats": {handleStats, 0, "shows the queue statistics",
			"pairqctl -p [RPC port] stats"},
		"drain": {handleDrain, 0, "drops every queued job",
			"pairqctl -p [RPC port] drain"},
		"add-auth": {handleAddAuth, 3, "adds an user to the auth table",
			"pairqctl -p [RPC port] add-auth [username] [password] [role]"},
		"rm-auth": {handleRmAuth, 1, "removes an user from the auth table",
			"pairqctl -p [RPC port] rm-auth [username]"},
	}

	pflag.IntVarP(&rpcPort, "port", "p", -1, "port used for RPC")
}

func main() {
	pflag.Parse()

	if len(pflag.Args()) < 1 {
		logger.Fatalf("No command given.")
		pflag.CommandLine.Usage()
		os.Exit(1)
	}

	cmdName := pflag.Args()[0]
	cmd, ok := commands[cmdName]
	if !ok {
		logger.Fatalf("Unknown command.")
		pflag.CommandLine.Usage()
		os.Exit(1)
	}

	var cmdArgs []string
	if len(pflag.Args()) > 1 {
		cmdArgs = pflag.Args()[1:]
	}

	if len(cmdArgs) < cmd.args {
		logger.Fatalf("Not enough arguments for %v (need %v, got %v).", cmdName, cmd.args, len(cmdArgs))
		handleHelp([]string{cmdName})
		os.Exit(1)
	}
	cmd.handler(cmdArgs)
	os.Exit(0)
}

func handleHelp(args []string) {
	if len(args) < 1 {
		pflag.CommandLine.Usage()
		return
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Printf("help: command '%v' does not exist.\n", args[0])
		os.Exit(1)
	}
	fmt.Printf("Usage of %v:\n", args[0])
	fmt.Printf("    %v\n", cmd.usage)
}

func handleStats(args []string) {
	client := dial()
	var reply t.StatsReply
	if err := client.Call("Queue.Stats", &t.StatsArgs{}, &reply); err != nil {
		logger.Errorf("stats: Failed (%s).", err)
		os.Exit(1)
	}
	fmt.Printf("%v: %v job(s) queued, %v taken so far.\n", reply.Name, reply.Queued, reply.Taken)
}

func handleDrain(args []string) {
	client := dial()
	var reply t.DrainReply
	if err := client.Call("Queue.Drain", &t.DrainArgs{}, &reply); err != nil {
		logger.Errorf("drain: Failed (%s).", err)
		os.Exit(1)
	}
	fmt.Printf("drain: Dropped %v job(s).\n", reply.Dropped)
}

func handleAddAuth(args []string) {
	client := dial()
	rpcArgs := &t.AddAuthArgs{
		Username: args[0],
		Password: args[1],
		Role:     args[2],
	}
	var reply int
	if err := client.Call("Auth.AddAuth", rpcArgs, &reply); err != nil {
		logger.Errorf("add-auth: Failed (%s).", err)
		os.Exit(1)
	}
	fmt.Printf("add-auth: User '%v' with role '%v' added succesfully!\n", args[0], args[2])
}

func handleRmAuth(args []string) {
	client := dial()
	rpcArgs := &t.RmAuthArgs{
		Username: args[0],
	}
	var reply int
	if err := client.Call("Auth.RmAuth", rpcArgs, &reply); err != nil {
		logger.Errorf("rm-auth: Failed (%s).", err)
		os.Exit(1)
	}
	fmt.Printf("rm-auth: User '%v' removed succesfully!\n", args[0])
}

func dial() *rpc.Client {
	if rpcPort <= 0 {
		logger.Fatalf("Port must be specified.")
		pflag.CommandLine.Usage()
		os.Exit(1)
	}

	client, err := rpc.DialHTTP("tcp", "localhost:"+strconv.Itoa(rpcPort))
	if err != nil {
		logger.Fatalf("Couldn't dial server (%s).", err)
		os.Exit(1)
	}
	return client
}

func printUsage() {
	fmt.Print(
		"Usage of pairqctl:\n" +
			"    pairqctl -p [RPC port] [command] [args...]\n")
	fmt.Println()
	fmt.Println("Flags:")
	pflag.CommandLine.PrintDefaults()
	fmt.Println()
	fmt.Println("Available commands:")
	for name, cmd := range commands {
		fmt.Printf("    %v: %v.\n", name, cmd.description)
	}
}

var lvlToString = map[logger.LogLevel]string{
	logger.LevelTrace:   "trace",
	logger.LevelDebug:   "debug",
	logger.LevelInfo:    "info",
	logger.LevelWarning: "warn",
	logger.LevelError:   "error",
	logger.LevelFatal:   "fatal",
}

func logFormat(msg string, lvl logger.LogLevel) string {
	return fmt.Sprintf("%v: %v\n", lvlToString[lvl], msg)
}
