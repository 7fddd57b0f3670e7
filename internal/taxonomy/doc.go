// Package taxonomy organizes an indexed file tree into a Site made of
// Collections and Items.
//
// A Collection is rooted at a directory that holds an index file (any file
// whose stem is "index"). Files directly inside that directory are the
// collection's Items; files in deeper directories that do not start their own
// collection are data, grouped by the directory they live in. Files under the
// content root that no collection claims belong to the implicit root
// collection "/". Files under the assets root become site resources.
package taxonomy
