// Package dependency finds the classes and methods reachable from a build's
// entry points and exported classes, and prunes a class source to that
// closure.
//
// Reachability follows static references only: invoked methods (resolved
// through the parent chain), constructed and initialized classes, field
// owners and every class named by a type operand. Touching a class reaches
// its ancestors and its static initializer. Virtual dispatch does not add
// overriding methods of subclasses.
package dependency
