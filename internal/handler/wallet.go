package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AlexZinkM/rose-wallet/internal/common"
	"github.com/AlexZinkM/rose-wallet/internal/config"
	"github.com/AlexZinkM/rose-wallet/internal/coordinator"
	"github.com/AlexZinkM/rose-wallet/internal/crypto"
	"github.com/AlexZinkM/rose-wallet/internal/model"
	"github.com/AlexZinkM/rose-wallet/internal/state"
	"github.com/AlexZinkM/rose-wallet/oasis"
)

const qrSize = 256

// RateProvider returns the price of one ROSE in a fiat currency
type RateProvider interface {
	GetROSERate(ctx context.Context, currency string) (string, error)
}

// Dispatcher accepts actions for the wallet coordinator
type Dispatcher interface {
	Dispatch(ctx context.Context, action state.Action) error
}

// WalletHandler serves the wallet API
type WalletHandler struct {
	dispatcher   Dispatcher
	store        *state.Store
	rates        RateProvider
	logger       *zap.Logger
	network      string
	keystorePath string
	importCount  uint32
}

// Options configure a WalletHandler
type Options struct {
	Network      string
	KeystorePath string
	ImportCount  int
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(dispatcher Dispatcher, store *state.Store, rates RateProvider, logger *zap.Logger, opts Options) *WalletHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	count := uint32(opts.ImportCount)
	if opts.ImportCount <= 0 {
		count = 5
	}
	return &WalletHandler{
		dispatcher:   dispatcher,
		store:        store,
		rates:        rates,
		logger:       logger.Named("handler"),
		network:      opts.Network,
		keystorePath: opts.KeystorePath,
		importCount:  count,
	}
}

// Register mounts the wallet endpoints on mux
func (h *WalletHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/wallets", h.ListWallets)
	mux.HandleFunc("/wallets/private-key", h.OpenPrivateKey)
	mux.HandleFunc("/wallets/mnemonic", h.OpenMnemonic)
	mux.HandleFunc("/wallets/ledger", h.OpenLedger)
	mux.HandleFunc("/wallets/select", h.SelectWallet)
	mux.HandleFunc("/wallets/close", h.CloseWallets)
	mux.HandleFunc("/wallets/{id}/refresh", h.RefreshWallet)
	mux.HandleFunc("/wallets/selected/balance", h.SelectedBalance)
	mux.HandleFunc("/wallets/selected/qr", h.SelectedQR)

	mux.HandleFunc("/import", h.ListImportAccounts)
	mux.HandleFunc("/import/mnemonic", h.ImportMnemonic)
	mux.HandleFunc("/import/ledger", h.ImportLedger)
	mux.HandleFunc("/import/select", h.ToggleImportAccount)

	mux.HandleFunc("/transactions/sent", h.TransactionSent)

	mux.HandleFunc("/keystore/save", h.SaveKeystore)
	mux.HandleFunc("/keystore/unlock", h.UnlockKeystore)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

func (h *WalletHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (h *WalletHandler) dispatch(w http.ResponseWriter, r *http.Request, action state.Action) bool {
	if err := h.dispatcher.Dispatch(r.Context(), action); err != nil {
		h.logger.Error("failed to dispatch", zap.String("action", action.Type()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, model.CodeInternal, errors.New("wallet coordinator unavailable"))
		return false
	}
	return true
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		http.Error(w, "Method not allowed. Should be "+method, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func accepted(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusAccepted, model.AcceptedResponse{Success: true, Message: message})
}

// OpenPrivateKey handles POST /wallets/private-key
// @Summary      Open wallet from private key
// @Description  Validates a hex ed25519 private key and opens its wallet once the balance is loaded
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.OpenPrivateKeyRequest  true  "Private key"
// @Success      202      {object}  model.OpenPrivateKeyResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /wallets/private-key [post]
func (h *WalletHandler) OpenPrivateKey(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.OpenPrivateKeyRequest
	if !h.decode(w, r, &req) {
		return
	}

	kp, err := oasis.PrivateKeyFromHex(req.PrivateKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err)
		return
	}
	defer kp.Clear()

	address, err := oasis.PublicKeyToAddress(kp.PublicKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err)
		return
	}

	if !h.dispatch(w, r, coordinator.OpenWalletFromPrivateKey{PrivateKey: kp.PrivateKeyHex()}) {
		return
	}
	writeJSON(w, http.StatusAccepted, model.OpenPrivateKeyResponse{
		Address:   address,
		PublicKey: kp.PublicKeyHex(),
	})
}

// ImportMnemonic handles POST /import/mnemonic
// @Summary      Derive accounts from a mnemonic
// @Description  Derives accounts along m/44'/474'/i' and lists them with their balances for selection
// @Tags         import
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportMnemonicRequest  true  "Mnemonic"
// @Success      202      {object}  model.AcceptedResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /import/mnemonic [post]
func (h *WalletHandler) ImportMnemonic(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.ImportMnemonicRequest
	if !h.decode(w, r, &req) {
		return
	}
	count := req.Count
	if count == 0 {
		count = h.importCount
	}

	accounts, err := oasis.DeriveAccounts(req.Mnemonic, req.Start, count)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err)
		return
	}

	if !h.dispatch(w, r, coordinator.LoadImportAccounts{WalletType: model.WalletTypeMnemonic, Accounts: accounts}) {
		return
	}
	accepted(w, fmt.Sprintf("%d accounts are loading", len(accounts)))
}

// ImportLedger handles POST /import/ledger
// @Summary      List ledger accounts
// @Description  Lists accounts read from a ledger device with their balances for selection
// @Tags         import
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportLedgerRequest  true  "Ledger accounts"
// @Success      202      {object}  model.AcceptedResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /import/ledger [post]
func (h *WalletHandler) ImportLedger(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.ImportLedgerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Accounts) == 0 {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, errors.New("accounts are required"))
		return
	}

	accounts := make([]model.ImportAccount, 0, len(req.Accounts))
	for i, acc := range req.Accounts {
		pub, err := oasis.PublicKeyFromHex(acc.PublicKey)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, fmt.Errorf("account %d: %w", i, err))
			return
		}
		address, err := oasis.PublicKeyToAddress(pub)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, fmt.Errorf("account %d: %w", i, err))
			return
		}
		if acc.Address != "" && acc.Address != address {
			writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, fmt.Errorf("account %d: address does not match public key", i))
			return
		}
		accounts = append(accounts, model.ImportAccount{
			Address:   address,
			PublicKey: strings.ToLower(strings.TrimPrefix(acc.PublicKey, "0x")),
			Path:      acc.Path,
			Type:      model.WalletTypeLedger,
			Balance:   model.ZeroBalance(),
		})
	}

	if !h.dispatch(w, r, coordinator.LoadImportAccounts{WalletType: model.WalletTypeLedger, Accounts: accounts}) {
		return
	}
	accepted(w, fmt.Sprintf("%d accounts are loading", len(accounts)))
}

// ListImportAccounts handles GET /import
// @Summary      List import accounts
// @Description  Lists the accounts of the last mnemonic or ledger import
// @Tags         import
// @Produce      json
// @Success      200  {object}  model.ImportAccountsResponse
// @Router       /import [get]
func (h *WalletHandler) ListImportAccounts(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	typ, accounts := h.store.SelectImportAccounts()
	resp := model.ImportAccountsResponse{
		Type:     typ,
		Accounts: make([]model.ImportAccountEntry, 0, len(accounts)),
	}
	for _, a := range accounts {
		resp.Accounts = append(resp.Accounts, model.ImportAccountEntry{
			Address:   a.Address,
			Short:     common.ShortAddress(a.Address),
			PublicKey: a.PublicKey,
			Path:      a.Path,
			Balance:   a.Balance,
			Selected:  a.Selected,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ToggleImportAccount handles POST /import/select
// @Summary      Toggle import account
// @Description  Selects or deselects an import account for opening
// @Tags         import
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportSelectRequest  true  "Account address"
// @Success      202      {object}  model.AcceptedResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /import/select [post]
func (h *WalletHandler) ToggleImportAccount(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.ImportSelectRequest
	if !h.decode(w, r, &req) {
		return
	}

	_, accounts := h.store.SelectImportAccounts()
	found := false
	for _, a := range accounts {
		if a.Address == req.Address {
			found = true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, model.CodeNotFound, fmt.Errorf("account %s is not in the import list", req.Address))
		return
	}

	if !h.dispatch(w, r, state.ImportAccountsToggle{Address: req.Address}) {
		return
	}
	accepted(w, "account selection toggled")
}

// OpenMnemonic handles POST /wallets/mnemonic
// @Summary      Open mnemonic wallets
// @Description  Opens the selected mnemonic import accounts and selects the first
// @Tags         wallets
// @Produce      json
// @Success      202  {object}  model.AcceptedResponse
// @Failure      400  {object}  model.ErrorResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallets/mnemonic [post]
func (h *WalletHandler) OpenMnemonic(w http.ResponseWriter, r *http.Request) {
	h.openImported(w, r, model.WalletTypeMnemonic, coordinator.OpenWalletFromMnemonic{})
}

// OpenLedger handles POST /wallets/ledger
// @Summary      Open ledger wallets
// @Description  Opens the selected ledger import accounts and selects the first
// @Tags         wallets
// @Produce      json
// @Success      202  {object}  model.AcceptedResponse
// @Failure      400  {object}  model.ErrorResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallets/ledger [post]
func (h *WalletHandler) OpenLedger(w http.ResponseWriter, r *http.Request) {
	h.openImported(w, r, model.WalletTypeLedger, coordinator.OpenWalletsFromLedger{})
}

func (h *WalletHandler) openImported(w http.ResponseWriter, r *http.Request, typ model.WalletType, action state.Action) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	importType, _ := h.store.SelectImportAccounts()
	if importType != typ {
		writeError(w, http.StatusConflict, model.CodeConflict, fmt.Errorf("import list does not hold %s accounts", typ))
		return
	}
	selected := h.store.SelectSelectedAccounts()
	if len(selected) == 0 {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, errors.New("no accounts selected"))
		return
	}

	if !h.dispatch(w, r, action) {
		return
	}
	accepted(w, fmt.Sprintf("opening %d wallets", len(selected)))
}

// ListWallets handles GET /wallets
// @Summary      List open wallets
// @Tags         wallets
// @Produce      json
// @Success      200  {object}  model.WalletsResponse
// @Router       /wallets [get]
func (h *WalletHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	wallets := h.store.SelectWallets()
	resp := model.WalletsResponse{Wallets: make([]model.WalletEntry, 0, len(wallets))}
	if id, ok := h.store.SelectSelectedWalletID(); ok {
		resp.Selected = &id
	}
	for _, wallet := range wallets {
		resp.Wallets = append(resp.Wallets, model.WalletEntry{
			ID:        wallet.ID,
			Address:   wallet.Address,
			Short:     common.ShortAddress(wallet.Address),
			PublicKey: wallet.PublicKey,
			Type:      wallet.Type,
			Balance:   wallet.Balance,
			Path:      wallet.Path,
			Selected:  wallet.Selected,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// SelectWallet handles POST /wallets/select
// @Summary      Select wallet
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.SelectWalletRequest  true  "Wallet id"
// @Success      202      {object}  model.AcceptedResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /wallets/select [post]
func (h *WalletHandler) SelectWallet(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.SelectWalletRequest
	if !h.decode(w, r, &req) {
		return
	}
	if _, ok := h.store.SelectWalletByID(req.ID); !ok {
		writeError(w, http.StatusNotFound, model.CodeNotFound, fmt.Errorf("wallet %d is not open", req.ID))
		return
	}

	if !h.dispatch(w, r, state.SelectWallet{ID: req.ID}) {
		return
	}
	accepted(w, "wallet selected")
}

// CloseWallets handles POST /wallets/close
// @Summary      Close all wallets
// @Tags         wallets
// @Produce      json
// @Success      202  {object}  model.AcceptedResponse
// @Router       /wallets/close [post]
func (h *WalletHandler) CloseWallets(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if !h.dispatch(w, r, coordinator.CloseWallet{}) {
		return
	}
	accepted(w, "wallets closed")
}

// RefreshWallet handles POST /wallets/{id}/refresh
// @Summary      Refresh wallet balance
// @Tags         wallets
// @Produce      json
// @Param        id   path      int  true  "Wallet id"
// @Success      202  {object}  model.AcceptedResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallets/{id}/refresh [post]
func (h *WalletHandler) RefreshWallet(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, fmt.Errorf("invalid wallet id %q", r.PathValue("id")))
		return
	}
	wallet, ok := h.store.SelectWalletByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, model.CodeNotFound, fmt.Errorf("wallet %d is not open", id))
		return
	}

	if !h.dispatch(w, r, coordinator.FetchWallet{Wallet: wallet}) {
		return
	}
	accepted(w, "balance refresh requested")
}

// SelectedBalance handles GET /wallets/selected/balance
// @Summary      Get selected wallet balance
// @Description  Gets the balance of the selected wallet in ROSE and, when a currency is given, its fiat value
// @Tags         wallets
// @Produce      json
// @Param        currency  query     string  false  "Fiat currency, e.g. usd"
// @Success      200       {object}  model.BalanceResponse
// @Failure      404       {object}  model.ErrorResponse
// @Failure      502       {object}  model.ErrorResponse
// @Router       /wallets/selected/balance [get]
func (h *WalletHandler) SelectedBalance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	wallet, ok := h.store.SelectActiveWallet()
	if !ok {
		writeError(w, http.StatusNotFound, model.CodeNotFound, errors.New("no wallet selected"))
		return
	}

	total := wallet.Balance.Total()
	resp := model.BalanceResponse{
		Address:   wallet.Address,
		Available: common.BaseUnitsToROSE(wallet.Balance.Available),
		Escrow:    common.BaseUnitsToROSE(wallet.Balance.Escrow),
		Debonding: common.BaseUnitsToROSE(wallet.Balance.Debonding),
		Total:     common.BaseUnitsToROSE(total),
	}

	if currency := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("currency"))); currency != "" && h.rates != nil {
		rate, err := h.rates.GetROSERate(r.Context(), currency)
		if err != nil {
			h.logger.Warn("failed to get rate", zap.String("currency", currency), zap.Error(err))
			writeError(w, http.StatusBadGateway, model.CodeUpstream, err)
			return
		}
		fiat, err := common.FiatValue(total, rate)
		if err != nil {
			writeError(w, http.StatusBadGateway, model.CodeUpstream, err)
			return
		}
		resp.Currency = currency
		resp.Rate = rate
		resp.Fiat = fiat
	}

	writeJSON(w, http.StatusOK, resp)
}

// SelectedQR handles GET /wallets/selected/qr
// @Summary      Get selected wallet QR code
// @Description  Gets a base64 PNG QR code of the selected wallet address
// @Tags         wallets
// @Produce      json
// @Success      200  {object}  model.QRResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallets/selected/qr [get]
func (h *WalletHandler) SelectedQR(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	address := h.store.SelectAddress()
	if address == "" {
		writeError(w, http.StatusNotFound, model.CodeNotFound, errors.New("no wallet selected"))
		return
	}

	qr, err := common.GenerateQRCode(address, qrSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.CodeInternal, err)
		return
	}
	writeJSON(w, http.StatusOK, model.QRResponse{Address: address, QR: qr})
}

// TransactionSent handles POST /transactions/sent
// @Summary      Report a sent transaction
// @Description  Refreshes the balances of the wallets a transfer touched
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request  body      model.TransactionSent  true  "Transaction"
// @Success      202      {object}  model.AcceptedResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /transactions/sent [post]
func (h *WalletHandler) TransactionSent(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.TransactionSent
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err)
		return
	}
	if req.To != "" && !oasis.IsValidAddress(req.To) {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, fmt.Errorf("invalid address %q", req.To))
		return
	}

	if !h.dispatch(w, r, coordinator.TransactionSent{Transaction: req}) {
		return
	}
	accepted(w, "transaction recorded")
}

func (h *WalletHandler) keystorePassword(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if h.keystorePath == "" {
		writeError(w, http.StatusNotFound, model.CodeNotFound, errors.New("keystore is not configured"))
		return nil, false
	}

	var req model.KeystoreRequest
	if r.ContentLength != 0 {
		if !h.decode(w, r, &req) {
			return nil, false
		}
	}
	if req.Password != "" {
		return []byte(req.Password), true
	}

	password, err := config.GetKeystorePasswordBytes()
	if err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err)
		return nil, false
	}
	return password, true
}

// SaveKeystore handles POST /keystore/save
// @Summary      Save wallets to keystore
// @Description  Encrypts the open wallets into the keystore file, replacing its content
// @Tags         keystore
// @Accept       json
// @Produce      json
// @Param        request  body      model.KeystoreRequest  false  "Password, the prompted one when empty"
// @Success      200      {object}  model.KeystoreResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /keystore/save [post]
func (h *WalletHandler) SaveKeystore(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	// Get password as []byte, use it, then zero it immediately
	password, ok := h.keystorePassword(w, r)
	if !ok {
		return
	}
	defer clear(password) // Always clear password from memory

	wallets := h.store.SelectWallets()
	if len(wallets) == 0 {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, errors.New("no open wallets"))
		return
	}

	stored := make([]model.StoredWallet, 0, len(wallets))
	addresses := make([]string, 0, len(wallets))
	for _, wallet := range wallets {
		stored = append(stored, model.StoredWallet{
			Address:    wallet.Address,
			PublicKey:  wallet.PublicKey,
			PrivateKey: wallet.PrivateKey,
			Type:       wallet.Type,
			Path:       wallet.Path,
		})
		addresses = append(addresses, wallet.Address)
	}

	if err := crypto.EncryptWallets(h.keystorePath, h.network, stored, password); err != nil {
		h.logger.Error("failed to save keystore", zap.Error(err))
		writeError(w, http.StatusInternalServerError, model.CodeInternal, err)
		return
	}

	writeJSON(w, http.StatusOK, model.KeystoreResponse{
		Success: true,
		Message: "Keystore saved successfully",
		Wallets: addresses,
	})
}

// UnlockKeystore handles POST /keystore/unlock
// @Summary      Open wallets from keystore
// @Description  Decrypts the keystore and opens its wallets once their balances are loaded
// @Tags         keystore
// @Accept       json
// @Produce      json
// @Param        request  body      model.KeystoreRequest  false  "Password, the prompted one when empty"
// @Success      202      {object}  model.KeystoreResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /keystore/unlock [post]
func (h *WalletHandler) UnlockKeystore(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	password, ok := h.keystorePassword(w, r)
	if !ok {
		return
	}
	defer clear(password)

	keystore, data, err := crypto.DecryptWallets(h.keystorePath, password)
	switch {
	case errors.Is(err, crypto.ErrKeystoreNotFound):
		writeError(w, http.StatusNotFound, model.CodeNotFound, err)
		return
	case errors.Is(err, crypto.ErrInvalidPassword):
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err)
		return
	case err != nil:
		h.logger.Error("failed to read keystore", zap.Error(err))
		writeError(w, http.StatusInternalServerError, model.CodeInternal, err)
		return
	}
	if h.network != "" && keystore.Network != h.network {
		writeError(w, http.StatusConflict, model.CodeConflict, fmt.Errorf("keystore belongs to %s, service runs on %s", keystore.Network, h.network))
		return
	}

	accounts := make([]model.ImportAccount, 0, len(data.Wallets))
	addresses := make([]string, 0, len(data.Wallets))
	for _, sw := range data.Wallets {
		accounts = append(accounts, model.ImportAccount{
			Address:    sw.Address,
			PublicKey:  sw.PublicKey,
			PrivateKey: sw.PrivateKey,
			Path:       sw.Path,
			Type:       sw.Type,
			Balance:    model.ZeroBalance(),
		})
		addresses = append(addresses, sw.Address)
	}
	if len(accounts) == 0 {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, errors.New("keystore holds no wallets"))
		return
	}

	if !h.dispatch(w, r, coordinator.OpenWalletsFromKeystore{Accounts: accounts}) {
		return
	}
	writeJSON(w, http.StatusAccepted, model.KeystoreResponse{
		Success: true,
		Message: "Wallets are opening",
		Wallets: addresses,
	})
}
