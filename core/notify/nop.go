package notify

// NopNotifier discards all notices. It is used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) NotifyProvider(ProviderNotice) error { return nil }
func (NopNotifier) NotifyCycle(CycleSummary) error      { return nil }
func (NopNotifier) Close() error                        { return nil }
