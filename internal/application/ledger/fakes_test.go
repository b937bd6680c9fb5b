package ledger_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Fakes en memoria de los puertos del kardex. Cada Create es una "fila" igual
// que en el almacén real, y los contadores failHeaderAfter/failLineAfter
// permiten simular la caída a mitad de una saga.

var errStorage = errors.New("storage caído")

type fakeMovementRepo struct {
	headers map[string]*entity.MovementTransaction
	lines   map[string][]*entity.StockLine

	headerWrites int
	lineWrites   int

	failHeader    bool
	failLineAfter int // falla el CreateLine número N (1-based); 0 = nunca
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{
		headers: make(map[string]*entity.MovementTransaction),
		lines:   make(map[string][]*entity.StockLine),
	}
}

func (f *fakeMovementRepo) CreateHeader(txn *entity.MovementTransaction) error {
	if f.failHeader {
		return errStorage
	}
	f.headerWrites++
	cp := *txn
	cp.Lines = nil
	f.headers[txn.ID] = &cp
	return nil
}

func (f *fakeMovementRepo) CreateLine(line *entity.StockLine) error {
	f.lineWrites++
	if f.failLineAfter > 0 && f.lineWrites >= f.failLineAfter {
		return errStorage
	}
	cp := *line
	f.lines[line.TxnID] = append(f.lines[line.TxnID], &cp)
	return nil
}

func (f *fakeMovementRepo) GetByID(id string) (*entity.MovementTransaction, error) {
	return f.headers[id], nil
}

func (f *fakeMovementRepo) GetByNumber(txnNumber string) (*entity.MovementTransaction, error) {
	for _, h := range f.headers {
		if h.TxnNumber == txnNumber {
			return h, nil
		}
	}
	return nil, nil
}

func (f *fakeMovementRepo) ListLines(txnID string) ([]*entity.StockLine, error) {
	return f.lines[txnID], nil
}

func (f *fakeMovementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementTransaction, error) {
	var out []*entity.MovementTransaction
	for _, h := range f.headers {
		if h.WarehouseID == warehouseID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) ListByReference(reference string) ([]*entity.MovementTransaction, error) {
	var out []*entity.MovementTransaction
	for _, h := range f.headers {
		if h.ReferenceDocument == reference {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func newFakeWarehouseRepo(whs ...*entity.Warehouse) *fakeWarehouseRepo {
	m := make(map[string]*entity.Warehouse, len(whs))
	for _, wh := range whs {
		m[wh.ID] = wh
	}
	return &fakeWarehouseRepo{warehouses: m}
}

func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return f.warehouses[id], nil
}

func (f *fakeWarehouseRepo) List() ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, wh := range f.warehouses {
		out = append(out, wh)
	}
	return out, nil
}

// fakeStockLookup stock actual por producto+bodega (la clave ignora el bin).
type fakeStockLookup struct {
	stock map[string]decimal.Decimal
}

func newFakeStockLookup() *fakeStockLookup {
	return &fakeStockLookup{stock: make(map[string]decimal.Decimal)}
}

func (f *fakeStockLookup) set(productID, warehouseID string, qty decimal.Decimal) {
	f.stock[productID+"|"+warehouseID] = qty
}

func (f *fakeStockLookup) CurrentStock(productID, warehouseID, binID string) (decimal.Decimal, error) {
	return f.stock[productID+"|"+warehouseID], nil
}

type fakeSeqRepo struct {
	seqs map[string]int64
}

func newFakeSeqRepo() *fakeSeqRepo {
	return &fakeSeqRepo{seqs: make(map[string]int64)}
}

func (f *fakeSeqRepo) Next(scope, typeCode string, date time.Time) (int64, error) {
	key := scope + "|" + typeCode + "|" + date.Format("20060102")
	f.seqs[key]++
	return f.seqs[key], nil
}

type fakeIDs struct {
	n int
}

func (f *fakeIDs) NextID() string {
	f.n++
	return fmt.Sprintf("id-%04d", f.n)
}
