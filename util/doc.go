// Package util provides small helpers shared by iterkit packages.
package util
