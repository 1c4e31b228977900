package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/config"
	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/format"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/rewardservice"
	"github.com/osse101/SpinWheel_Go/internal/spin"
	"github.com/osse101/SpinWheel_Go/internal/wheel"
)

const (
	clientServiceName = "spin-client"
	prompt            = "> "
	helpText          = `Commands:
  spin [first_time|random|threshold]  spin the wheel (default first_time)
  spend <amount>                      report spend toward threshold spins
  state                               show eligibility and remaining spins
  wallet                              show balances
  wheel                               list the wheel segments
  help                                show this text
  quit                                exit`
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, clientServiceName, "", "", false))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := rewardservice.NewClient(cfg.AuthorityURL, cfg.APIKey, cfg.RequestTimeout)

	wheelOpts := wheel.DefaultOptions(0)
	wheelOpts.SpinDuration = cfg.SpinDuration
	wheelOpts.RevealOffset = cfg.RevealOffset
	wheelOpts.FullRotations = cfg.FullRotations
	wheelOpts.PointerOffsetDeg = cfg.PointerOffsetDeg
	wheelOpts.JitterRatio = cfg.JitterRatio

	session, err := spin.NewSession(ctx, spin.Deps{Service: svc, UserID: cfg.UserID}, spin.Options{
		Wheel:           &wheelOpts,
		ClaimRetryDelay: cfg.ClaimRetryDelay,
	})
	if err != nil {
		log.Fatalf("Failed to start spin session: %v", err)
	}
	defer session.Close()

	settled := make(chan domain.ResolvedOption, 1)
	session.OnSpin(func(opt domain.ResolvedOption) {
		fmt.Printf("The wheel slows down on %s...\n", opt.Label)
	})
	session.OnSettle(func(opt domain.ResolvedOption, forced bool) {
		select {
		case settled <- opt:
		default:
		}
	})
	session.OnSpinsUpdate(func(remaining int) {
		fmt.Printf("Spins remaining: %d\n", remaining)
	})

	fmt.Printf("Spin wheel for %s (%d segments)\n", cfg.UserID, len(session.Labels()))
	fmt.Println(helpText)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Print(prompt)
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok = <-lines:
			if !ok {
				return
			}
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "spin":
			kind := domain.TriggerFirstTime
			if len(fields) > 1 {
				kind = domain.TriggerKind(fields[1])
			}
			runSpin(ctx, session, kind, settled)
		case "spend":
			if len(fields) < 2 {
				fmt.Println("usage: spend <amount>")
				continue
			}
			recordSpend(ctx, svc, session, cfg.UserID, fields[1])
		case "state":
			printState(session.Refresh(ctx))
		case "wallet":
			b := session.Balances()
			fmt.Printf("GC: %s  SC: %s\n", b.GoldCoins.String(), b.SweepCoins.StringFixed(2))
		case "wheel":
			for i, label := range session.Labels() {
				fmt.Printf("  %d. %s\n", i+1, label)
			}
		case "help":
			fmt.Println(helpText)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q, type help\n", fields[0])
		}
	}
}

func runSpin(ctx context.Context, session *spin.Session, kind domain.TriggerKind, settled <-chan domain.ResolvedOption) {
	res, err := session.Spin(ctx, kind)
	if err != nil {
		fmt.Printf("Cannot spin: %s\n", describeError(err))
		return
	}
	if res.Fallback() {
		fmt.Println("The authority did not answer; this spin is for show only.")
	}

	select {
	case opt := <-settled:
		if opt.SpinID == "" {
			fmt.Printf("Landed on %s (no reward)\n", opt.Label)
		} else {
			fmt.Printf("You won %s %s (%s)\n", format.Amount(opt.Amount), opt.Type, format.RarityName(opt.Rarity))
		}
	case <-ctx.Done():
		return
	}

	if err := session.Acknowledge(); err != nil {
		logger.Warn("Failed to reset wheel", "error", err)
	}
}

func recordSpend(ctx context.Context, svc rewardservice.Service, session *spin.Session, userID, raw string) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Printf("invalid amount %q\n", raw)
		return
	}
	res, err := svc.RecordSpend(ctx, userID, amount)
	if err != nil {
		fmt.Printf("Spend not recorded: %s\n", describeError(err))
		return
	}
	fmt.Printf("Spins awarded: %d, remaining: %d\n", res.SpinsAwarded, res.SpinsRemaining)
	session.Refresh(ctx)
}

func printState(view domain.SpinStateView) {
	eligible := make([]string, 0, len(view.Eligible))
	for _, k := range view.Eligible {
		eligible = append(eligible, string(k))
	}
	fmt.Printf("Eligible: %s\n", strings.Join(eligible, ", "))
	fmt.Printf("Spins remaining: %d\n", view.SpinsRemaining)
	if view.NextRandomAt != nil {
		fmt.Printf("Next random spin at: %s\n", view.NextRandomAt.Local().Format("15:04:05"))
	}
	if len(view.Unclaimed) > 0 {
		fmt.Printf("Unclaimed spins: %d\n", len(view.Unclaimed))
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotEligible):
		return "not eligible for that trigger"
	case errors.Is(err, domain.ErrOnCooldown):
		return "on cooldown, try later"
	case errors.Is(err, domain.ErrNoSpinsAvailable):
		return "no spins available"
	case errors.Is(err, domain.ErrWheelInactive):
		return "the wheel is switched off"
	default:
		return err.Error()
	}
}
