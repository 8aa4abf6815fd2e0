/*
Package domain contains the core domain models of the keyboard engine.
It defines the compiled menu tree, node addresses, replies sent to the messaging
gateway and the error taxonomy. This package is kept pure and free of external
dependencies like I/O or persistence.

# Key Entities

  - Address: the ordered label path of a node; the empty path is the root.
  - Node: one compiled menu entry (Submenu, Text leaf or Action leaf).
  - Tree: the immutable address -> node mapping owned by one engine.
  - Reply: what the engine asks the gateway to show (text, optional keyboard).
  - Transition: the outcome of one navigation step for a session.
*/
package domain
