package cart

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/arlomendez/techstore-backend/api/middleware"
	cartsvc "github.com/arlomendez/techstore-backend/internal/cart"
	"github.com/arlomendez/techstore-backend/internal/catalog"
	"github.com/arlomendez/techstore-backend/pkg/db/models"
	pkgerrors "github.com/arlomendez/techstore-backend/pkg/errors"
	"github.com/arlomendez/techstore-backend/pkg/logger"
)

type stubCatalog struct {
	selection *catalog.VariantSelection
	err       error
}

func (s stubCatalog) List(ctx context.Context, filter catalog.ListFilter) ([]models.Product, error) {
	return nil, nil
}

func (s stubCatalog) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return nil, nil
}

func (s stubCatalog) GetByHandle(ctx context.Context, handle string) (*models.Product, error) {
	return nil, nil
}

func (s stubCatalog) SelectVariant(ctx context.Context, id uuid.UUID, color, storage string) (*catalog.VariantSelection, error) {
	return s.selection, s.err
}

func (s stubCatalog) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	return nil, nil
}

func (s stubCatalog) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	return nil, nil
}

func (s stubCatalog) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cart-api-test", Output: io.Discard})
}

func newCartService(t *testing.T) *cartsvc.Service {
	t.Helper()
	svc, err := cartsvc.NewService(func(string) cartsvc.SnapshotStore {
		return cartsvc.NewMemorySnapshotStore()
	}, 4, testLogger(), nil, nil)
	if err != nil {
		t.Fatalf("create cart service: %v", err)
	}
	return svc
}

func phoneSelection(id uuid.UUID, color, storage string, price int) *catalog.VariantSelection {
	return &catalog.VariantSelection{
		Product:        &models.Product{ID: id, Name: "Galaxy Fold", Image: "fold.png"},
		Color:          color,
		Storage:        storage,
		Name:           "Galaxy Fold",
		Image:          "fold.png",
		UnitPriceCents: price,
	}
}

func authedRequest(method, target, body, userID string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

func decodeView(t *testing.T, resp *httptest.ResponseRecorder) View {
	t.Helper()
	var envelope struct {
		Data View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestFetchRequiresUser(t *testing.T) {
	handler := Fetch(newCartService(t), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", "", ""))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestFetchEmptyCart(t *testing.T) {
	handler := Fetch(newCartService(t), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", "", "user-1"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	view := decodeView(t, resp)
	if len(view.Items) != 0 || view.ItemCount != 0 || view.TotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", view)
	}
	if view.TotalDisplay != "0.00" {
		t.Fatalf("unexpected total display: %s", view.TotalDisplay)
	}
}

func TestAddItemMergesLines(t *testing.T) {
	svc := newCartService(t)
	productID := uuid.New()
	handler := AddItem(svc, stubCatalog{selection: phoneSelection(productID, "Black", "512GB", 129900)}, nil)

	body := `{"productId":"` + productID.String() + `","color":"Black","storage":"512GB","quantity":2}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, "user-1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	body = `{"productId":"` + productID.String() + `","color":"Black","storage":"512GB","quantity":1}`
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, "user-1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	view := decodeView(t, resp)
	if len(view.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", view.Items[0].Quantity)
	}
	if view.TotalCents != 3*129900 {
		t.Fatalf("unexpected total: %d", view.TotalCents)
	}
}

func TestAddItemClampsQuantityToStock(t *testing.T) {
	svc := newCartService(t)
	productID := uuid.New()
	selection := phoneSelection(productID, "", "", 59900)
	selection.Product.Stock = 2
	handler := AddItem(svc, stubCatalog{selection: selection}, nil)

	body := `{"productId":"` + productID.String() + `","quantity":9}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, "user-1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	view := decodeView(t, resp)
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity clamped to 2, got %+v", view.Items)
	}
}

func TestAddItemRejectsUnknownVariant(t *testing.T) {
	handler := AddItem(newCartService(t), stubCatalog{err: pkgerrors.New(pkgerrors.CodeValidation, "unknown color")}, nil)

	body := `{"productId":"` + uuid.NewString() + `","color":"Chartreuse","quantity":1}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, "user-1"))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddItemValidatesBody(t *testing.T) {
	handler := AddItem(newCartService(t), stubCatalog{}, nil)

	// missing quantity
	body := `{"productId":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, "user-1"))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	svc := newCartService(t)
	productID := uuid.New()
	add := AddItem(svc, stubCatalog{selection: phoneSelection(productID, "", "", 49900)}, nil)

	body := `{"productId":"` + productID.String() + `","quantity":2}`
	resp := httptest.NewRecorder()
	add.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, "user-1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("add failed: %d", resp.Code)
	}

	update := UpdateItem(svc, nil)
	body = `{"productId":"` + productID.String() + `","quantity":0}`
	resp = httptest.NewRecorder()
	update.ServeHTTP(resp, authedRequest(http.MethodPatch, "/api/v1/cart/items", body, "user-1"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	view := decodeView(t, resp)
	if len(view.Items) != 0 {
		t.Fatalf("expected line removed, got %+v", view.Items)
	}
}

func TestRemoveItemByQuery(t *testing.T) {
	svc := newCartService(t)
	productID := uuid.New()
	add := AddItem(svc, stubCatalog{selection: phoneSelection(productID, "Black", "256GB", 89900)}, nil)

	body := `{"productId":"` + productID.String() + `","color":"Black","storage":"256GB","quantity":1}`
	resp := httptest.NewRecorder()
	add.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, "user-1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("add failed: %d", resp.Code)
	}

	remove := RemoveItem(svc, nil)
	target := "/api/v1/cart/items?productId=" + productID.String() + "&color=Black&storage=256GB"
	resp = httptest.NewRecorder()
	remove.ServeHTTP(resp, authedRequest(http.MethodDelete, target, "", "user-1"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	view := decodeView(t, resp)
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", view.Items)
	}
}

func TestRemoveItemRejectsBadProductID(t *testing.T) {
	remove := RemoveItem(newCartService(t), nil)

	resp := httptest.NewRecorder()
	remove.ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart/items?productId=nope", "", "user-1"))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	svc := newCartService(t)
	productID := uuid.New()
	add := AddItem(svc, stubCatalog{selection: phoneSelection(productID, "", "", 19900)}, nil)

	body := `{"productId":"` + productID.String() + `","quantity":4}`
	resp := httptest.NewRecorder()
	add.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, "user-1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("add failed: %d", resp.Code)
	}

	clear := Clear(svc, nil)
	resp = httptest.NewRecorder()
	clear.ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart", "", "user-1"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	view := decodeView(t, resp)
	if view.ItemCount != 0 || view.TotalCents != 0 {
		t.Fatalf("expected cleared cart, got %+v", view)
	}
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	svc := newCartService(t)
	productID := uuid.New()
	add := AddItem(svc, stubCatalog{selection: phoneSelection(productID, "", "", 9900)}, nil)

	body := `{"productId":"` + productID.String() + `","quantity":1}`
	resp := httptest.NewRecorder()
	add.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, "user-a"))
	if resp.Code != http.StatusOK {
		t.Fatalf("add failed: %d", resp.Code)
	}

	fetch := Fetch(svc, nil)
	resp = httptest.NewRecorder()
	fetch.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", "", "user-b"))

	view := decodeView(t, resp)
	if len(view.Items) != 0 {
		t.Fatalf("expected user-b cart empty, got %+v", view.Items)
	}
}
