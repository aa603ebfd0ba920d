package codec

// Reconcile returns a copy of r with the effective enabled states computed.
// Across observed producer versions the raw flag bits alone were not a
// reliable indicator of enabled state, so a feature counts as enabled when
// its bit is set or its associated string is non-empty. Pure and total;
// the raw fields are left untouched.
func Reconcile(r Record) Record {
	r.EffectiveProxyEnabled = r.RawFlags&FlagProxy != 0 || r.ProxyServer != ""
	r.EffectiveAutoConfigEnabled = r.RawFlags&FlagAutoConfig != 0 || r.AutoConfigURL != ""
	return r
}
