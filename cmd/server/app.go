package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"onboarding/internal/peers"
	"onboarding/internal/peers/servicetoken"
	"onboarding/internal/platform/config"
	"onboarding/internal/platform/metrics"
	"onboarding/internal/platform/postgres"
	platformredis "onboarding/internal/platform/redis"
	"onboarding/internal/registration/reaper"
	"onboarding/internal/registration/service"
	"onboarding/internal/registration/store/memory"
	pgstore "onboarding/internal/registration/store/postgres"
	redisstore "onboarding/internal/registration/store/redis"
	"onboarding/pkg/platform/circuit"
)

// sagaStore is implemented by every state store backend.
type sagaStore interface {
	service.Store
	reaper.Store
}

// backend is an opened store plus the resources it holds.
type backend struct {
	store  sagaStore
	redis  *goredis.Client
	health func(ctx context.Context) error
	close  func()
}

func openBackend(ctx context.Context, cfg config.Config, m *metrics.Metrics, log *slog.Logger) (*backend, error) {
	switch cfg.Store.Backend {
	case "memory":
		log.Warn("using in-memory saga store; state is lost on restart")
		return &backend{
			store:  memory.New(memory.WithRetention(cfg.Store.Retention)),
			health: func(context.Context) error { return nil },
			close:  func() {},
		}, nil
	case "redis":
		rc, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &backend{
			store: redisstore.New(rc.Client,
				redisstore.WithRetention(cfg.Store.Retention),
				redisstore.WithLogger(log),
				redisstore.WithMetrics(m),
			),
			redis:  rc.Client,
			health: rc.Health,
			close:  func() { _ = rc.Close() },
		}, nil
	case "postgres":
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := pgstore.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &backend{
			store:  pgstore.New(db, pgstore.WithRetention(cfg.Store.Retention)),
			health: db.PingContext,
			close:  func() { _ = db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// leaseClient returns the redis client used for the reaper lease, dialing a
// dedicated one when the store is not redis.
func (b *backend) leaseClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if b.redis != nil {
		return b.redis, nil
	}
	rc, err := platformredis.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	prev := b.close
	b.close = func() {
		_ = rc.Close()
		prev()
	}
	b.redis = rc.Client
	return rc.Client, nil
}

// peerSet holds one adapter per participant service.
type peerSet struct {
	identity       *peers.IdentityProvider
	emailOTP       *peers.OTP
	smsOTP         *peers.OTP
	kyc            *peers.KYC
	wallet         *peers.Wallet
	biometricID    *peers.BiometricID
	businessVault  *peers.BusinessVault
	referralBounty *peers.ReferralBounty
	notification   *peers.Notification
}

func newPeers(cfg config.Peers, tokens *servicetoken.Service, m *metrics.Metrics, log *slog.Logger) *peerSet {
	client := func(name, baseURL string) *peers.Client {
		return peers.NewClient(name, baseURL,
			peers.WithTokenIssuer(tokens),
			peers.WithBreaker(circuit.New(name,
				circuit.WithFailureThreshold(cfg.FailureThreshold),
				circuit.WithCooldown(30*time.Second),
			)),
			peers.WithLogger(log),
			peers.WithMetrics(m),
			peers.WithTimeout(cfg.RequestTimeout),
		)
	}
	return &peerSet{
		identity:       peers.NewIdentityProvider(client("identity_provider", cfg.IdentityProviderURL), cfg.IdPClientID, cfg.IdPClientSecret, cfg.LookupTimeout),
		emailOTP:       peers.NewOTP(client("email_otp", cfg.EmailOTPURL), peers.OTPEmail),
		smsOTP:         peers.NewOTP(client("sms_otp", cfg.SMSOTPURL), peers.OTPSMS),
		kyc:            peers.NewKYC(client("kyc", cfg.KYCURL)),
		wallet:         peers.NewWallet(client("wallet", cfg.WalletURL)),
		biometricID:    peers.NewBiometricID(client("biometric_id", cfg.BiometricIDURL)),
		businessVault:  peers.NewBusinessVault(client("business_vault", cfg.BusinessVaultURL)),
		referralBounty: peers.NewReferralBounty(client("referral_bounty", cfg.ReferralBountyURL)),
		notification:   peers.NewNotification(client("notification", cfg.NotificationURL)),
	}
}

func (p *peerSet) orchestrator() service.Participants {
	return service.Participants{
		Identity:      p.identity,
		EmailOTP:      p.emailOTP,
		MobileOTP:     p.smsOTP,
		KYC:           p.kyc,
		Wallet:        p.wallet,
		BiometricID:   p.biometricID,
		BusinessVault: p.businessVault,
	}
}

func (p *peerSet) compensators() reaper.Participants {
	return reaper.Participants{
		Identity:       p.identity,
		KYC:            p.kyc,
		BiometricID:    p.biometricID,
		ReferralBounty: p.referralBounty,
		Notification:   p.notification,
	}
}

func newReaper(ctx context.Context, cfg config.Config, b *backend, p *peerSet, m *metrics.Metrics, log *slog.Logger) (*reaper.Reaper, error) {
	opts := []reaper.Option{
		reaper.WithLogger(log),
		reaper.WithMetrics(m),
		reaper.WithHorizon(cfg.Reaper.Horizon),
		reaper.WithConcurrency(cfg.Reaper.AttemptConcurrency, cfg.Reaper.CallConcurrency),
	}
	if cfg.Reaper.Lock {
		rc, err := b.leaseClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("reaper lease: %w", err)
		}
		opts = append(opts, reaper.WithLocker(reaper.NewRedisLease(rc, cfg.Reaper.LockTTL, log)))
	}
	return reaper.New(b.store, p.compensators(), opts...)
}
