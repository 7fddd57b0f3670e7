// Package value defines Value, the closed dynamic type used for all item
// metadata and for everything the configuration and data-format readers
// produce.
//
// A Value is one of: null, boolean, number, string, path, array or dict.
// Numbers keep their signedness but compare by numeric value, so Int(-1) sorts
// below Uint(0) and Int(10) equals Uint(10). Dict keys iterate in sorted order.
//
// Values are immutable once constructed; arrays and dicts returned by the
// accessors are shared and must not be modified.
package value
