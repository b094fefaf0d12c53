package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/baharkarakas/kuota-backend/internal/catalog"
	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

const dashboardRecent = 5

var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount the way the storefront shows it, e.g. "Rp 50.000".
func FormatRupiah(amount int64) string {
	return rupiah.Sprintf("Rp %d", amount)
}

// TransactionView is a transaction with display labels resolved. Labels fall
// back to "Customer {id}" and "Package {id}" when the reference is gone.
type TransactionView struct {
	models.Transaction
	CustomerName string `json:"customer_name"`
	PackageName  string `json:"package_name"`
	AmountLabel  string `json:"amount_label"`
}

type Dashboard struct {
	TotalCustomers    int               `json:"total_customers"`
	TotalTransactions int               `json:"total_transactions"`
	TotalPackages     int               `json:"total_packages"`
	Revenue           int64             `json:"revenue"`
	RevenueLabel      string            `json:"revenue_label"`
	Recent            []TransactionView `json:"recent_transactions"`
}

type CustomerSummary struct {
	Customer          models.Customer `json:"customer"`
	BalanceLabel      string          `json:"balance_label"`
	TransactionCount  int             `json:"transaction_count"`
	TotalSpent        int64           `json:"total_spent"`
	TotalSpentLabel   string          `json:"total_spent_label"`
	LastTransactionAt *time.Time      `json:"last_transaction_at,omitempty"`
}

// QueryService answers read-only questions about the ledger. It never writes.
type QueryService struct {
	customers repo.Customers
	txns      repo.Transactions
	catalog   catalog.Catalog
}

func NewQueryService(customers repo.Customers, txns repo.Transactions, cat catalog.Catalog) *QueryService {
	return &QueryService{customers: customers, txns: txns, catalog: cat}
}

func (s *QueryService) RevenueTotal(ctx context.Context) (int64, error) {
	all, err := s.txns.List(ctx, repo.TransactionFilter{})
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}
	return revenue(all), nil
}

// RecentTransactions returns up to n transactions, newest first.
func (s *QueryService) RecentTransactions(ctx context.Context, n int) ([]TransactionView, error) {
	all, err := s.txns.List(ctx, repo.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return s.label(ctx, newest(all, n))
}

func (s *QueryService) TransactionsForCustomer(ctx context.Context, id models.CustomerID) ([]TransactionView, error) {
	list, err := s.txns.List(ctx, repo.TransactionFilter{CustomerID: id})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return s.label(ctx, list)
}

func (s *QueryService) AllTransactions(ctx context.Context) ([]TransactionView, error) {
	list, err := s.txns.List(ctx, repo.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return s.label(ctx, list)
}

func (s *QueryService) Transaction(ctx context.Context, id models.TransactionID) (TransactionView, error) {
	t, err := s.txns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TransactionView{}, ErrTxnNotFound
		}
		return TransactionView{}, fmt.Errorf("get transaction: %w", err)
	}
	views, err := s.label(ctx, []models.Transaction{t})
	if err != nil {
		return TransactionView{}, err
	}
	return views[0], nil
}

func (s *QueryService) Dashboard(ctx context.Context) (Dashboard, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list customers: %w", err)
	}
	all, err := s.txns.List(ctx, repo.TransactionFilter{})
	if err != nil {
		return Dashboard{}, fmt.Errorf("list transactions: %w", err)
	}
	recent, err := s.label(ctx, newest(all, dashboardRecent))
	if err != nil {
		return Dashboard{}, err
	}
	rev := revenue(all)
	return Dashboard{
		TotalCustomers:    len(customers),
		TotalTransactions: len(all),
		TotalPackages:     len(s.catalog.List()),
		Revenue:           rev,
		RevenueLabel:      FormatRupiah(rev),
		Recent:            recent,
	}, nil
}

func (s *QueryService) CustomerSummary(ctx context.Context, id models.CustomerID) (CustomerSummary, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CustomerSummary{}, ErrCustomerNotFound
		}
		return CustomerSummary{}, fmt.Errorf("get customer: %w", err)
	}
	list, err := s.txns.List(ctx, repo.TransactionFilter{CustomerID: id})
	if err != nil {
		return CustomerSummary{}, fmt.Errorf("list transactions: %w", err)
	}
	sum := CustomerSummary{
		Customer:         c,
		BalanceLabel:     FormatRupiah(c.Balance),
		TransactionCount: len(list),
		TotalSpent:       revenue(list),
	}
	sum.TotalSpentLabel = FormatRupiah(sum.TotalSpent)
	if n := len(list); n > 0 {
		last := list[n-1].CreatedAt
		sum.LastTransactionAt = &last
	}
	return sum, nil
}

func (s *QueryService) label(ctx context.Context, list []models.Transaction) ([]TransactionView, error) {
	names := make(map[models.CustomerID]string)
	for _, t := range list {
		if _, ok := names[t.CustomerID]; ok {
			continue
		}
		c, err := s.customers.GetByID(ctx, t.CustomerID)
		switch {
		case err == nil:
			names[t.CustomerID] = c.Name
		case errors.Is(err, repo.ErrNotFound):
			names[t.CustomerID] = "Customer " + t.CustomerID.String()
		default:
			return nil, fmt.Errorf("get customer: %w", err)
		}
	}

	out := make([]TransactionView, 0, len(list))
	for _, t := range list {
		pkgName := "Package " + t.PackageID.String()
		if p, err := s.catalog.Get(t.PackageID); err == nil {
			pkgName = p.Name
		}
		out = append(out, TransactionView{
			Transaction:  t,
			CustomerName: names[t.CustomerID],
			PackageName:  pkgName,
			AmountLabel:  FormatRupiah(t.Amount),
		})
	}
	return out, nil
}

func revenue(list []models.Transaction) int64 {
	var total int64
	for _, t := range list {
		if t.Status == models.TxnCompleted {
			total += t.Amount
		}
	}
	return total
}

// newest returns the last n rows of an id-ascending list, newest first.
func newest(list []models.Transaction, n int) []models.Transaction {
	if n <= 0 {
		return nil
	}
	if n > len(list) {
		n = len(list)
	}
	out := make([]models.Transaction, 0, n)
	for i := len(list) - 1; i >= len(list)-n; i-- {
		out = append(out, list[i])
	}
	return out
}
