package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xKoRx/echo-dwx/agent/internal"
	"github.com/xKoRx/echo-dwx/sdk/domain"
	"github.com/xKoRx/echo-dwx/sdk/domain/command"
	"github.com/xKoRx/echo-dwx/sdk/utils"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encode":
		runEncode(os.Args[2:])
	case "schema":
		runSchema(os.Args[2:])
	case "send":
		runSend(os.Args[2:])
	case "run":
		runAgent(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := `echo-dwx-cli - herramientas operativas para el bridge DWX

Uso:
  echo-dwx-cli encode <ACTION|ORDER_TYPE> [campo=valor ...]
  echo-dwx-cli schema [ACTION]
  echo-dwx-cli send [--config file] [--wait 2s] [--json] <ACTION|ORDER_TYPE> [campo=valor ...]
  echo-dwx-cli run [--config file]

Comandos:
  encode   Imprime el registro de cable y los avisos, sin transporte.
  schema   Lista los campos requeridos por cada acción.
  send     Envía un comando al terminal y muestra el estado reportado.
  run      Ejecuta el agent hasta recibir SIGINT/SIGTERM.

Campos: symbol, price, sl, tp, comment, lots, magic, ticket.
`
	fmt.Fprintln(os.Stderr, usage)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// parseCommand interpreta "<discriminador> campo=valor ..." a partir de args.
func parseCommand(args []string) (command.Discriminator, command.Fields) {
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	d, err := command.ParseDiscriminator(strings.ToUpper(args[0]))
	if err != nil {
		fatalf("error: %v", err)
	}
	fields, err := command.ParseFields(args[1:])
	if err != nil {
		fatalf("error parseando campos: %v", err)
	}
	return d, fields
}

func printAdvisories(advisories []command.Advisory) {
	for _, a := range advisories {
		fmt.Fprintf(os.Stderr, "aviso [%s] %s: %s\n", a.Code, a.Field, a.Message)
	}
}

func runEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	magic := fs.Int64("magic-default", command.DefaultMagic, "MagicNumber por defecto")
	comment := fs.String("comment-default", "", "Comentario por defecto")
	if err := fs.Parse(args); err != nil {
		fatalf("error parseando flags: %v", err)
	}

	d, fields := parseCommand(fs.Args())
	enc := command.NewEncoder(command.WithDefaults(command.Defaults{Comment: *comment, Magic: *magic}))
	rec, err := enc.Encode(d, fields)
	if err != nil {
		fatalf("error: %v", err)
	}
	printAdvisories(rec.Advisories())
	fmt.Println(rec.String())
}

func runSchema(args []string) {
	actions := domain.Actions()
	if len(args) > 0 {
		a, err := domain.ParseAction(strings.ToUpper(args[0]))
		if err != nil {
			fatalf("error: %v", err)
		}
		actions = []domain.Action{a}
	}

	for _, a := range actions {
		set, err := domain.FieldsFor(a)
		if err != nil {
			fatalf("error: %v", err)
		}
		if !set.IsImplemented() {
			fmt.Printf("%-20s (no implementada)\n", a)
			continue
		}
		names := make([]string, 0, set.Len())
		for _, f := range set.Fields() {
			names = append(names, f.Slot())
		}
		fmt.Printf("%-20s %s\n", a, strings.Join(names, ","))
	}
}

func runSend(args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	configPath := fs.String("config", "", "Archivo de configuración (vacío = etcd)")
	wait := fs.Duration("wait", 2*time.Second, "Tiempo de espera de la respuesta")
	jsonOutput := fs.Bool("json", false, "Imprimir el estado en formato JSON")
	if err := fs.Parse(args); err != nil {
		fatalf("error parseando flags: %v", err)
	}
	d, fields := parseCommand(fs.Args())

	ctx, cancel := context.WithTimeout(context.Background(), *wait+10*time.Second)
	defer cancel()

	cfg, err := internal.LoadConfigFrom(ctx, *configPath)
	if err != nil {
		fatalf("error cargando configuración: %v", err)
	}

	agent, err := internal.New(ctx, cfg)
	if err != nil {
		fatalf("error inicializando agent: %v", err)
	}
	defer func() {
		if err := agent.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "error cerrando agent: %v\n", err)
		}
	}()

	go func() { _ = agent.Start() }()

	rec, err := agent.Connector().Send(ctx, d, fields)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error enviando comando: %v\n", err)
		return
	}
	printAdvisories(rec.Advisories())
	fmt.Printf("Enviado: %s;%s\n", cfg.CommandPrefix, rec.String())

	time.Sleep(*wait)
	printState(agent.Connector(), *jsonOutput)
}

func printState(c *internal.Connector, jsonOutput bool) {
	if jsonOutput {
		data, err := utils.MarshalJSONIndent(c.Tracker().Snapshot(), "", "  ")
		if err != nil {
			fatalf("error serializando estado: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	if ticket, ok := c.Ticket(); ok {
		fmt.Printf("Ticket: %d\n", ticket)
	} else {
		fmt.Println("Ticket: (sin respuesta)")
	}
	if positions, ok := c.Positions(); ok {
		fmt.Printf("Posiciones: %d\n", len(positions))
		for id, p := range positions {
			line := fmt.Sprintf("  * %s %s %s %.2f @ %g", id, p.Symbol, p.Type.Side(), p.Lots, p.OpenPrice)
			if p.HasStopLoss() {
				line += fmt.Sprintf(" SL=%g", p.SL)
			}
			if p.HasTakeProfit() {
				line += fmt.Sprintf(" TP=%g", p.TP)
			}
			fmt.Println(line)
		}
	}
	if orders, ok := c.Orders(); ok {
		fmt.Printf("Órdenes: %d\n", len(orders))
		for id, o := range orders {
			fmt.Printf("  * %s %s %s %.2f @ %g\n", id, o.Symbol, o.Type, o.Lots, o.OpenPrice)
		}
	}
}

func runAgent(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Archivo de configuración (vacío = etcd)")
	if err := fs.Parse(args); err != nil {
		fatalf("error parseando flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := internal.LoadConfigFrom(ctx, *configPath)
	if err != nil {
		fatalf("error cargando configuración: %v", err)
	}

	agent, err := internal.New(ctx, cfg)
	if err != nil {
		fatalf("error inicializando agent: %v", err)
	}
	defer func() {
		if err := agent.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "error cerrando agent: %v\n", err)
		}
	}()

	if err := agent.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "agent detenido: %v\n", err)
	}
}
