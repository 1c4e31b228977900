package wallet

const (
	LogMsgWalletRefreshed = "Wallet refreshed"
)
