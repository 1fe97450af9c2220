// Command cartctl drives the storefront cart from the terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"goflare.io/storefront"
	"goflare.io/storefront/cart"
	"goflare.io/storefront/catalog"
	"goflare.io/storefront/config"
	"goflare.io/storefront/driver"
	"goflare.io/storefront/models"
	"goflare.io/storefront/models/enum"
	"goflare.io/storefront/notify"
	"goflare.io/storefront/slot"
	"goflare.io/storefront/stock"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "cartctl",
		Short:         "Manage the RocketShoes cart",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "storefront.toml", "path to the TOML config file")

	// withService boots the cart for one command and tears it down afterwards.
	withService := func(run func(ctx context.Context, svc storefront.Service, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := boot(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer a.close()

			return run(cmd.Context(), a.service, args)
		}
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the cart as stored",
		Args:  cobra.NoArgs,
		RunE: withService(func(_ context.Context, svc storefront.Service, _ []string) error {
			return printJSON(svc.Cart())
		}),
	}

	addCmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: withService(func(ctx context.Context, svc storefront.Service, args []string) error {
			id, err := parseInt("product id", args[0])
			if err != nil {
				return err
			}
			return report(svc.AddProduct(ctx, id))
		}),
	}

	removeCmd := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: withService(func(ctx context.Context, svc storefront.Service, args []string) error {
			id, err := parseInt("product id", args[0])
			if err != nil {
				return err
			}
			return report(svc.RemoveProduct(ctx, id))
		}),
	}

	updateCmd := &cobra.Command{
		Use:   "update <product-id> <amount>",
		Short: "Set the amount of a product already in the cart",
		Args:  cobra.ExactArgs(2),
		RunE: withService(func(ctx context.Context, svc storefront.Service, args []string) error {
			id, err := parseInt("product id", args[0])
			if err != nil {
				return err
			}
			amount, err := parseInt("amount", args[1])
			if err != nil {
				return err
			}
			return report(svc.UpdateProductAmount(ctx, models.UpdateProductAmount{ProductID: id, Amount: amount}))
		}),
	}

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print formatted subtotals and the cart total",
		Args:  cobra.NoArgs,
		RunE: withService(func(_ context.Context, svc storefront.Service, _ []string) error {
			summary := svc.Summary()
			for _, item := range summary.Items {
				fmt.Printf("%3d x %-50s %12s %12s\n", item.Product.Amount, item.Product.Title, item.PriceFormatted, item.SubtotalFormatted)
			}
			fmt.Printf("%d item(s), total %s\n", summary.Quantity, summary.TotalFormatted)
			return nil
		}),
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Print cart events published on NATS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return watch(cmd.Context(), configPath)
		},
	}

	rootCmd.AddCommand(showCmd, addCmd, removeCmd, updateCmd, summaryCmd, watchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

type app struct {
	service storefront.Service
	logger  *zap.Logger
	closers []func()
}

func (a *app) close() {
	if a.service != nil {
		a.service.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}

func boot(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := driver.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}
	a := &app{logger: logger}

	api, err := driver.ConnectAPI(cfg.API.BaseURL, cfg.API.Timeout.Duration, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	s, err := openSlot(ctx, cfg, a)
	if err != nil {
		a.close()
		return nil, err
	}

	store, err := cart.NewStore(ctx, stock.NewOracle(api, logger), catalog.NewCatalog(api, logger), s, logger, cart.WithKey(cfg.Slot.Key))
	if err != nil {
		a.close()
		return nil, err
	}

	notifier := notify.Multi(
		notify.NewLogNotifier(logger),
		notify.Func(func(_ context.Context, n notify.Notification) error {
			_, err := fmt.Fprintf(os.Stderr, "! %s (product %d)\n", n.Message, n.ProductID)
			return err
		}),
	)

	if cfg.NATS.URL != "" {
		nc, err := driver.ConnectNATS(cfg.NATS.URL, "cartctl", logger)
		if err != nil {
			a.close()
			return nil, err
		}
		// Drain after the worker pool has flushed its events.
		a.closers = append(a.closers, func() { _ = nc.Drain() })
		a.service = storefront.NewService(store, notifier, nc, cfg.Workers, logger)
	} else {
		a.service = storefront.NewService(store, notifier, nil, cfg.Workers, logger)
	}

	return a, nil
}

func openSlot(ctx context.Context, cfg config.Config, a *app) (slot.Slot, error) {
	switch cfg.Slot.Driver {
	case config.SlotMemory:
		return slot.NewMemory(), nil

	case config.SlotBunt:
		db, err := driver.OpenBunt(cfg.Slot.Path, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		return slot.NewBunt(db, a.logger), nil

	case config.SlotRedis:
		client, err := driver.ConnectRedis(ctx, driver.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return slot.NewRedis(client, cfg.Redis.Prefix, a.logger), nil

	case config.SlotPostgres:
		pool, err := driver.ConnectSQL(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)

		pg := slot.NewPostgres(pool, driver.NewTransactionManager(pool, a.logger), a.logger)
		if err = pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	}

	return nil, fmt.Errorf("unknown slot driver %q", cfg.Slot.Driver)
}

func watch(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.NATS.URL == "" {
		return errors.New("watch needs nats.url to be configured")
	}

	logger, err := driver.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	nc, err := driver.ConnectNATS(cfg.NATS.URL, "cartctl-watch", logger)
	if err != nil {
		return err
	}
	defer nc.Close()

	em := storefront.NewEventManager(nc, logger)
	printEvent := func(_ context.Context, e *models.CartEvent) error {
		line := fmt.Sprintf("%s %-6s product=%d outcome=%s items=%d", e.OccurredAt.Format("15:04:05"), e.Operation, e.ProductID, e.Outcome, e.Cart.Quantity())
		if e.Message != "" {
			line += " message=" + strconv.Quote(e.Message)
		}
		fmt.Println(line)
		return nil
	}
	for _, outcome := range []enum.Outcome{
		enum.OutcomeSuccess,
		enum.OutcomeNoop,
		enum.OutcomeStockExceeded,
		enum.OutcomeAddFailed,
		enum.OutcomeRemoveFailed,
		enum.OutcomeUpdateFailed,
	} {
		em.RegisterHandler(outcome, printEvent)
	}

	wp := storefront.NewWorkerPool(1, em, logger)
	defer wp.Shutdown()

	sub, err := em.SubscribeToEvents(wp)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	logger.Info("watching cart events", zap.String("subject", storefront.EventSubject("*")))
	<-ctx.Done()
	return nil
}

func report(res cart.Result) error {
	if err := printJSON(res.Cart); err != nil {
		return err
	}
	if res.Failed() {
		if res.Err == nil {
			return errors.New(string(res.Outcome))
		}
		return fmt.Errorf("%s: %w", res.Outcome, res.Err)
	}
	if res.Outcome == enum.OutcomeNoop {
		fmt.Fprintln(os.Stderr, "nothing to do")
	}
	return nil
}

func parseInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
