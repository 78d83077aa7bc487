// Package testsupport holds helpers shared by package tests: temp-dir
// configurations, fixture files and an opened score cache.
package testsupport
