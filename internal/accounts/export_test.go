package accounts

// NeedsSync exposes the login write decision to the external test package.
var NeedsSync = needsSync

// LoginRefresh is the staleness bound NeedsSync applies.
const LoginRefresh = loginRefresh
