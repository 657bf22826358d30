package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	depositorPath = "../depositor"
	lostfoundPath = "../lostfound"
	tokenPath     = "../internal/testcontracts/exampletoken"
	nftPath       = "../internal/testcontracts/examplenft"

	// storageFee is the per-ticket GAS fee the ledger is deployed with
	// in tests, 0.1 GAS.
	storageFee = 10_000_000
)

// ledgerEnv is a fully linked deployment: depositor and ledger
// contracts wired to each other plus both example assets.
type ledgerEnv struct {
	e *neotest.Executor

	depositorHash util.Uint160
	ledgerHash    util.Uint160
	tokenHash     util.Uint160
	nftHash       util.Uint160
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	e := newExecutor(t)

	ctrDepositor := neotest.CompileFile(t, e.CommitteeHash, depositorPath, path.Join(depositorPath, "config.yml"))
	ctrLedger := neotest.CompileFile(t, e.CommitteeHash, lostfoundPath, path.Join(lostfoundPath, "config.yml"))
	ctrToken := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	ctrNFT := neotest.CompileFile(t, e.CommitteeHash, nftPath, path.Join(nftPath, "config.yml"))

	e.DeployContract(t, ctrDepositor, nil)

	args := make([]interface{}, 2)
	args[0] = ctrDepositor.Hash
	args[1] = int64(storageFee)
	e.DeployContract(t, ctrLedger, args)

	e.CommitteeInvoker(ctrDepositor.Hash).Invoke(t, stackitem.Null{},
		"setLedgerContract", ctrLedger.Hash)

	e.DeployContract(t, ctrToken, nil)
	e.DeployContract(t, ctrNFT, nil)

	return &ledgerEnv{
		e:             e,
		depositorHash: ctrDepositor.Hash,
		ledgerHash:    ctrLedger.Hash,
		tokenHash:     ctrToken.Hash,
		nftHash:       ctrNFT.Hash,
	}
}

func (l *ledgerEnv) depositor(signers ...neotest.Signer) *neotest.ContractInvoker {
	c := l.e.CommitteeInvoker(l.depositorHash)
	if len(signers) != 0 {
		c = c.WithSigners(signers...)
	}
	return c
}

func (l *ledgerEnv) ledger(signers ...neotest.Signer) *neotest.ContractInvoker {
	c := l.e.CommitteeInvoker(l.ledgerHash)
	if len(signers) != 0 {
		c = c.WithSigners(signers...)
	}
	return c
}

func (l *ledgerEnv) token(signers ...neotest.Signer) *neotest.ContractInvoker {
	c := l.e.CommitteeInvoker(l.tokenHash)
	if len(signers) != 0 {
		c = c.WithSigners(signers...)
	}
	return c
}

func (l *ledgerEnv) nft(signers ...neotest.Signer) *neotest.ContractInvoker {
	c := l.e.CommitteeInvoker(l.nftHash)
	if len(signers) != 0 {
		c = c.WithSigners(signers...)
	}
	return c
}

// setupDepositor creates a storage-fee account for the signer and tops
// it up with balance GAS. Pass nil threshold to disable the alert.
func (l *ledgerEnv) setupDepositor(t *testing.T, acc neotest.Signer, threshold interface{}, balance int64) {
	c := l.depositor(acc)
	c.Invoke(t, stackitem.Null{}, "setup", acc.ScriptHash(), threshold)
	if balance > 0 {
		c.Invoke(t, stackitem.Null{}, "addTokens", acc.ScriptHash(), balance)
	}
}

// mintToken mints amount of the example token to the account,
// configuring its vault first.
func (l *ledgerEnv) mintToken(t *testing.T, acc neotest.Signer, amount int64) {
	l.token(acc).Invoke(t, stackitem.Null{}, "setupVault", acc.ScriptHash())
	l.token().Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), amount)
}

// mintNFT mints an example NFT to the account, configuring its
// collection first, and returns the token ID.
func (l *ledgerEnv) mintNFT(t *testing.T, acc neotest.Signer, name, description, thumbnail string) []byte {
	l.nft(acc).Invoke(t, stackitem.Null{}, "setupCollection", acc.ScriptHash())

	tx := l.nft().PrepareInvoke(t, "mint", acc.ScriptHash(), name, description, thumbnail)
	l.e.AddNewBlock(t, tx)
	aer := l.e.CheckHalt(t, tx.Hash())

	tokenID, err := aer.Stack[0].TryBytes()
	require.NoError(t, err)
	return tokenID
}

func (l *ledgerEnv) gasBalance(t *testing.T, acc util.Uint160) int64 {
	gasHash := l.e.NativeHash(t, nativenames.Gas)
	s, err := l.e.CommitteeInvoker(gasHash).TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

// notificationsNamed filters the execution result's notifications by
// event name.
func notificationsNamed(aer *state.AppExecResult, name string) []state.NotificationEvent {
	var evs []state.NotificationEvent
	for _, ev := range aer.Events {
		if ev.Name == name {
			evs = append(evs, ev)
		}
	}
	return evs
}

// notificationsFrom filters the execution result's notifications by
// both the emitting contract and event name. Needed for Transfer which
// native GAS emits alongside the assets.
func notificationsFrom(aer *state.AppExecResult, contract util.Uint160, name string) []state.NotificationEvent {
	var evs []state.NotificationEvent
	for _, ev := range aer.Events {
		if ev.ScriptHash == contract && ev.Name == name {
			evs = append(evs, ev)
		}
	}
	return evs
}

// singleNotification requires exactly one notification with the name
// and returns its arguments.
func singleNotification(t *testing.T, aer *state.AppExecResult, name string) []stackitem.Item {
	evs := notificationsNamed(aer, name)
	require.Len(t, evs, 1, "expected a single %s notification", name)
	return evs[0].Item.Value().([]stackitem.Item)
}

func requireNoNotification(t *testing.T, aer *state.AppExecResult, name string) {
	require.Empty(t, notificationsNamed(aer, name))
}

func intArg(t *testing.T, item stackitem.Item) int64 {
	v, err := item.TryInteger()
	require.NoError(t, err)
	return v.Int64()
}

func bytesArg(t *testing.T, item stackitem.Item) []byte {
	v, err := item.TryBytes()
	require.NoError(t, err)
	return v
}

func hashArg(t *testing.T, item stackitem.Item) util.Uint160 {
	h, err := util.Uint160DecodeBytesBE(bytesArg(t, item))
	require.NoError(t, err)
	return h
}
