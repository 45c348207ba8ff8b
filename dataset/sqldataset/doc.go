/*
Package sqldataset reads and writes datasets on SQL databases.

A dataset is stored on a single table with a TEXT column for each of
its columns plus an integer "id" primary key that keeps the order of
the records. The id column is not part of the dataset header.

Differences between database engines are handled by an Adapter, with
implementations for SQLite3 and PostgreSQL in the subpackages.
*/
package sqldataset
