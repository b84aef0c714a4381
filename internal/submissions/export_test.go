package submissions

// ScanSubmission exposes row decoding to the external test package.
var ScanSubmission = scanSubmission

// Columns is the select list scanSubmission decodes.
const Columns = columns
