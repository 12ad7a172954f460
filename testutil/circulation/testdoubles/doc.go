// Package testdoubles provides spies for the logging, tracing and notification publishing interfaces.
package testdoubles
