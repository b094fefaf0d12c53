package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/baharkarakas/kuota-backend/internal/catalog"
	"github.com/baharkarakas/kuota-backend/internal/metrics"
	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

type PurchaseRequest struct {
	CustomerID     models.CustomerID
	PackageID      models.PackageID
	IdempotencyKey string
}

// Receipt is the outcome of a purchase. Replayed is set when the idempotency
// key matched an earlier purchase and nothing new was written.
type Receipt struct {
	Transaction models.Transaction `json:"transaction"`
	Balance     int64              `json:"balance"`
	Replayed    bool               `json:"replayed"`
}

type PurchaseConfig struct {
	MaxAttempts int
	Backoff     time.Duration
}

// PurchaseService is the only code path that debits a balance for a package.
type PurchaseService struct {
	customers repo.Customers
	txns      repo.Transactions
	catalog   catalog.Catalog
	audit     *Auditor
	log       *slog.Logger
	cfg       PurchaseConfig

	inflight singleflight.Group
}

func NewPurchaseService(customers repo.Customers, txns repo.Transactions, cat catalog.Catalog, audit *Auditor, log *slog.Logger, cfg PurchaseConfig) *PurchaseService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 20 * time.Millisecond
	}
	return &PurchaseService{
		customers: customers,
		txns:      txns,
		catalog:   cat,
		audit:     audit,
		log:       log,
		cfg:       cfg,
	}
}

// Purchase validates the request, then debits the package price and records a
// completed transaction in one store transaction. Either both happen or
// neither does. Once the write has started it is not cancelled by ctx.
func (s *PurchaseService) Purchase(ctx context.Context, req PurchaseRequest) (Receipt, error) {
	if req.CustomerID <= 0 || req.PackageID <= 0 {
		return Receipt{}, validationErr(models.ErrInvalidID)
	}

	pkg, err := s.catalog.Get(req.PackageID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Receipt{}, s.reject(req, "package_not_found", ErrPackageNotFound, nil)
		}
		return Receipt{}, fmt.Errorf("lookup package: %w", err)
	}

	if _, err := s.customers.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Receipt{}, s.reject(req, "customer_not_found", ErrCustomerNotFound, nil)
		}
		return Receipt{}, fmt.Errorf("lookup customer: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	wctx := context.WithoutCancel(ctx)
	run := func() (Receipt, error) { return s.commitWithRetry(wctx, req, pkg) }

	var rc Receipt
	if req.IdempotencyKey == "" {
		rc, err = run()
	} else {
		sfKey := fmt.Sprintf("%s|%d|%d", req.IdempotencyKey, req.CustomerID, req.PackageID)
		leader := false
		v, sfErr, _ := s.inflight.Do(sfKey, func() (any, error) {
			leader = true
			return run()
		})
		rc, err = v.(Receipt), sfErr
		if !leader && err == nil {
			rc.Replayed = true
		}
	}
	if err != nil {
		var insuf *InsufficientFundsError
		switch {
		case errors.As(err, &insuf):
			return Receipt{}, s.reject(req, "insufficient_funds", err, map[string]any{
				"balance": insuf.Balance,
				"price":   insuf.Price,
			})
		case errors.Is(err, ErrCustomerNotFound):
			return Receipt{}, s.reject(req, "customer_not_found", err, nil)
		case errors.Is(err, ErrIdempotencyConflict):
			return Receipt{}, s.reject(req, "idempotency_conflict", err, nil)
		default:
			metrics.PurchaseRejections.WithLabelValues("store_error").Inc()
			s.log.Error("purchase failed", "customer_id", req.CustomerID, "package_id", req.PackageID, "err", err)
			return Receipt{}, fmt.Errorf("purchase: %w", err)
		}
	}

	if !rc.Replayed {
		metrics.PurchasesTotal.Inc()
		metrics.RevenueTotal.Add(float64(rc.Transaction.Amount))
		s.log.Info("purchase completed",
			"transaction_id", rc.Transaction.ID,
			"customer_id", req.CustomerID,
			"package_id", req.PackageID,
			"amount", rc.Transaction.Amount,
			"balance", rc.Balance,
		)
	}
	return rc, nil
}

func (s *PurchaseService) commitWithRetry(ctx context.Context, req PurchaseRequest, pkg models.Package) (Receipt, error) {
	var (
		rc  Receipt
		err error
	)
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		rc, err = s.commit(ctx, req, pkg)
		if err == nil || !repo.IsRetryable(err) || attempt == s.cfg.MaxAttempts {
			return rc, err
		}
		metrics.PurchaseRetries.Inc()
		s.log.Warn("purchase retry", "attempt", attempt, "customer_id", req.CustomerID, "err", err)
		time.Sleep(time.Duration(attempt) * s.cfg.Backoff)
	}
	return rc, err
}

func (s *PurchaseService) commit(ctx context.Context, req PurchaseRequest, pkg models.Package) (Receipt, error) {
	var rc Receipt
	err := s.txns.WithTx(ctx, func(tx repo.LedgerTx) error {
		rc = Receipt{}

		if req.IdempotencyKey != "" {
			prev, err := tx.TransactionByIdempotencyKey(ctx, req.IdempotencyKey)
			switch {
			case err == nil:
				if prev.CustomerID != req.CustomerID || prev.PackageID != req.PackageID {
					return ErrIdempotencyConflict
				}
				rc = Receipt{Transaction: prev, Replayed: true}
				if c, err := tx.LockCustomer(ctx, req.CustomerID); err == nil {
					rc.Balance = c.Balance
				}
				return nil
			case !errors.Is(err, repo.ErrNotFound):
				return err
			}
		}

		c, err := tx.LockCustomer(ctx, req.CustomerID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}
		if c.Balance < pkg.Price {
			return &InsufficientFundsError{CustomerID: c.ID, Balance: c.Balance, Price: pkg.Price}
		}

		updated, err := tx.AdjustBalance(ctx, c.ID, -pkg.Price)
		if err != nil {
			if errors.Is(err, repo.ErrInsufficientFunds) {
				return &InsufficientFundsError{CustomerID: c.ID, Balance: c.Balance, Price: pkg.Price}
			}
			return err
		}

		t, err := tx.AppendTransaction(ctx, models.Transaction{
			CustomerID:     c.ID,
			PackageID:      pkg.ID,
			Amount:         pkg.Price,
			Status:         models.TxnCompleted,
			PaymentMethod:  models.PayBalance,
			IdempotencyKey: req.IdempotencyKey,
		})
		if err != nil {
			// Another process committed the same key first; the retry replays it.
			if errors.Is(err, repo.ErrDuplicateIdempotencyKey) {
				return fmt.Errorf("%w: %w", repo.ErrConcurrentModification, err)
			}
			return err
		}
		rc = Receipt{Transaction: t, Balance: updated.Balance}
		return nil
	})
	return rc, err
}

func (s *PurchaseService) reject(req PurchaseRequest, reason string, err error, extra map[string]any) error {
	metrics.PurchaseRejections.WithLabelValues(reason).Inc()
	details := map[string]any{
		"customer_id": int64(req.CustomerID),
		"package_id":  int64(req.PackageID),
		"reason":      reason,
	}
	for k, v := range extra {
		details[k] = v
	}
	s.audit.Record("customer", req.CustomerID.String(), models.AuditPurchaseRejected, details)
	s.log.Info("purchase rejected", "customer_id", req.CustomerID, "package_id", req.PackageID, "reason", reason)
	return err
}
