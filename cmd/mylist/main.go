// Command mylist manages a MovieFlix watchlist from the terminal. It keeps a
// local copy that works offline and syncs with the API when logged in.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"movieflix-backend/internal/config"
	"movieflix-backend/internal/mylist"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const usage = `usage: mylist <command> [flags]

commands:
  login   -email E -password P   store a session token
  logout                         forget the session token
  sync                           reload the list from the server
  list    [-kind film|series]    show the list
  add     -id ID [-kind K] [-title T] [-year Y] [-image URL]
  remove  -id ID [-kind K]
  toggle  -id ID [-kind K] [-title T] [-year Y]
  clear                          empty the local list
`

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if os.Getenv("MOVIEFLIX_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(context.Background(), log, config.LoadClient(), os.Args[1], os.Args[2:]); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logrus.Logger, cfg *config.ClientConfig, cmd string, args []string) error {
	client := mylist.NewAPIClient(cfg.APIURL, cfg.Timeout)
	tokenFile := mylist.NewTokenFile(cfg.TokenPath)

	var creds mylist.Credentials = tokenFile
	if cfg.Token != "" {
		creds = mylist.StaticToken(cfg.Token)
	}
	engine := mylist.NewEngine(mylist.NewFileStore(cfg.StatePath), creds, client, log)

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	id := fs.String("id", "", "catalog item id")
	kindFlag := fs.String("kind", "film", "film or series")
	title := fs.String("title", "", "display title")
	year := fs.Int("year", 0, "release year")
	image := fs.String("image", "", "poster URL")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, err := mylist.ParseKind(*kindFlag)
	if err != nil {
		return err
	}
	item := mylist.Item{ID: *id, Title: *title, Year: *year, Image: *image}

	switch cmd {
	case "login":
		if *email == "" || *password == "" {
			return errors.New("login needs -email and -password")
		}
		token, err := client.Login(ctx, *email, *password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := tokenFile.Save(token); err != nil {
			return err
		}
		fmt.Println("Logged in.")
		return nil

	case "logout":
		if cfg.Token != "" {
			return errors.New("MOVIEFLIX_TOKEN is set; unset it to log out")
		}
		if err := tokenFile.Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil

	case "sync":
		source := engine.Init(ctx)
		fmt.Printf("Loaded %d entries from %s.\n", engine.Snapshot().Len(), source)
		return nil

	case "list":
		engine.Init(ctx)
		var only mylist.Kind
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "kind" {
				only = kind
			}
		})
		printList(engine.Snapshot(), only)
		return nil

	case "add", "remove", "toggle":
		engine.Init(ctx)
		var res mylist.Result
		switch cmd {
		case "add":
			res, err = engine.Add(ctx, item, kind)
		case "remove":
			res, err = engine.Remove(ctx, *id, kind)
		default:
			res, err = engine.Toggle(ctx, item, kind)
		}
		if err != nil {
			return err
		}
		printResult(res)
		return nil

	case "clear":
		if err := engine.Clear(); err != nil {
			return err
		}
		fmt.Println("Local list cleared.")
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printResult(res mylist.Result) {
	label := "item"
	if res.Entry != nil {
		label = fmt.Sprintf("%q (%s)", res.Entry.Title, res.Entry.ID)
	}
	switch res.Action {
	case mylist.ActionAdded:
		fmt.Printf("Added %s", label)
	case mylist.ActionRemoved:
		fmt.Printf("Removed %s", label)
	default:
		fmt.Printf("No change for %s", label)
	}
	fmt.Printf(" [%s]\n", res.Sync)
	if res.RemoteErr != nil {
		fmt.Printf("  server: %v\n", res.RemoteErr)
	}
}

func printList(list mylist.List, only mylist.Kind) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tID\tTITLE\tRELEASED\tADDED\tSYNCED")
	for _, bucket := range [][]mylist.Entry{list.Films, list.Series} {
		for _, e := range bucket {
			if only != "" && e.Kind != only {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", e.Kind, e.ID, e.Title, e.ReleaseDate, e.AddedDate, e.ServerItem)
		}
	}
	_ = w.Flush()
}
