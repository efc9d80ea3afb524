package render

// FormatValue exposes formatValue for tests.
var FormatValue = formatValue
