/*
 * Cherry - An OpenFlow Controller
 *
 * Copyright (C) 2015 Samjung Data Service, Inc. All rights reserved.
 * Kitae Kim <superkkt@sds.co.kr>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package of13

const (
	/* Immutable messages. */
	OFPT_HELLO        = iota /* Symmetric message */
	OFPT_ERROR               /* Symmetric message */
	OFPT_ECHO_REQUEST        /* Symmetric message */
	OFPT_ECHO_REPLY          /* Symmetric message */
	OFPT_EXPERIMENTER        /* Symmetric message */
	/* Switch configuration messages. */
	OFPT_FEATURES_REQUEST   /* Controller/switch message */
	OFPT_FEATURES_REPLY     /* Controller/switch message */
	OFPT_GET_CONFIG_REQUEST /* Controller/switch message */
	OFPT_GET_CONFIG_REPLY   /* Controller/switch message */
	OFPT_SET_CONFIG         /* Controller/switch message */
	/* Asynchronous messages. */
	OFPT_PACKET_IN    /* Async message */
	OFPT_FLOW_REMOVED /* Async message */
	OFPT_PORT_STATUS  /* Async message */
	/* Controller command messages. */
	OFPT_PACKET_OUT /* Controller/switch message */
	OFPT_FLOW_MOD   /* Controller/switch message */
	OFPT_GROUP_MOD  /* Controller/switch message */
	OFPT_PORT_MOD   /* Controller/switch message */
	OFPT_TABLE_MOD  /* Controller/switch message */
	/* Multipart messages. */
	OFPT_MULTIPART_REQUEST /* Controller/switch message */
	OFPT_MULTIPART_REPLY   /* Controller/switch message */
	/* Barrier messages. */
	OFPT_BARRIER_REQUEST /* Controller/switch message */
	OFPT_BARRIER_REPLY   /* Controller/switch message */
)

const (
	/* Individual flow statistics.
	 * The request body is struct ofp_flow_stats_request.
	 * The reply body is an array of struct ofp_flow_stats. */
	OFPMP_FLOW = 1
	/* Port description.
	 * The request body is empty.
	 * The reply body is an array of struct ofp_port. */
	OFPMP_PORT_DESC = 13
)

const (
	OFPP_MAX        = 0xffffff00
	OFPP_IN_PORT    = 0xfffffff8
	OFPP_TABLE      = 0xfffffff9
	OFPP_NORMAL     = 0xfffffffa
	OFPP_FLOOD      = 0xfffffffb
	OFPP_ALL        = 0xfffffffc
	OFPP_CONTROLLER = 0xfffffffd
	OFPP_LOCAL      = 0xfffffffe
	OFPP_ANY        = 0xffffffff
)

const (
	OFPG_MAX = 0xffffff00
	OFPG_ALL = 0xfffffffc
	OFPG_ANY = 0xffffffff
)

const (
	OFP_NO_BUFFER = 0xffffffff
)

const (
	OFPFC_ADD           = 0 /* New flow. */
	OFPFC_MODIFY        = 1 /* Modify all matching flows. */
	OFPFC_MODIFY_STRICT = 2 /* Modify entry strictly matching wildcards and priority. */
	OFPFC_DELETE        = 3 /* Delete all matching flows. */
	OFPFC_DELETE_STRICT = 4 /* Delete entry strictly matching wildcards and priority. */
)

const (
	OFPFF_SEND_FLOW_REM = 1 << 0 /* Send flow removed message when flow expires or is deleted. */
	OFPFF_CHECK_OVERLAP = 1 << 1 /* Check for overlapping entries first. */
	OFPFF_RESET_COUNTS  = 1 << 2 /* Reset flow packet and byte counts. */
	OFPFF_NO_PKT_COUNTS = 1 << 3 /* Don't keep track of packet count. */
	OFPFF_NO_BYT_COUNTS = 1 << 4 /* Don't keep track of byte count. */
)

const (
	OFPMT_STANDARD = 0 /* Deprecated. */
	OFPMT_OXM      = 1 /* OpenFlow Extensible Match */
)

const (
	OFPXMC_NXM_0          = 0x0000 /* Backward compatibility with NXM */
	OFPXMC_NXM_1          = 0x0001 /* Backward compatibility with NXM */
	OFPXMC_OPENFLOW_BASIC = 0x8000 /* Basic class for OpenFlow */
	OFPXMC_EXPERIMENTER   = 0xFFFF /* Experimenter class */
)

const (
	OFPXMT_OFB_IN_PORT        = iota /* Switch input port. */
	OFPXMT_OFB_IN_PHY_PORT           /* Switch physical input port. */
	OFPXMT_OFB_METADATA              /* Metadata passed between tables. */
	OFPXMT_OFB_ETH_DST               /* Ethernet destination address. */
	OFPXMT_OFB_ETH_SRC               /* Ethernet source address. */
	OFPXMT_OFB_ETH_TYPE              /* Ethernet frame type. */
	OFPXMT_OFB_VLAN_VID              /* VLAN id. */
	OFPXMT_OFB_VLAN_PCP              /* VLAN priority. */
	OFPXMT_OFB_IP_DSCP               /* IP DSCP (6 bits in ToS field). */
	OFPXMT_OFB_IP_ECN                /* IP ECN (2 bits in ToS field). */
	OFPXMT_OFB_IP_PROTO              /* IP protocol. */
	OFPXMT_OFB_IPV4_SRC              /* IPv4 source address. */
	OFPXMT_OFB_IPV4_DST              /* IPv4 destination address. */
	OFPXMT_OFB_TCP_SRC               /* TCP source port. */
	OFPXMT_OFB_TCP_DST               /* TCP destination port. */
	OFPXMT_OFB_UDP_SRC               /* UDP source port. */
	OFPXMT_OFB_UDP_DST               /* UDP destination port. */
	OFPXMT_OFB_SCTP_SRC              /* SCTP source port. */
	OFPXMT_OFB_SCTP_DST              /* SCTP destination port. */
	OFPXMT_OFB_ICMPV4_TYPE           /* ICMP type. */
	OFPXMT_OFB_ICMPV4_CODE           /* ICMP code. */
	OFPXMT_OFB_ARP_OP                /* ARP opcode. */
)

const (
	OFPVID_PRESENT = 0x1000 /* Bit that indicate that a VLAN id is set */
	OFPVID_NONE    = 0x0000 /* No VLAN id was set. */
)

const (
	OFPAT_OUTPUT       = 0  /* Output to switch port. */
	OFPAT_COPY_TTL_OUT = 11 /* Copy TTL "outwards" -- from next-to-outermost to outermost */
	OFPAT_COPY_TTL_IN  = 12 /* Copy TTL "inwards" -- from outermost to next-to-outermost */
	OFPAT_SET_MPLS_TTL = 15 /* MPLS TTL */
	OFPAT_DEC_MPLS_TTL = 16 /* Decrement MPLS TTL */
	OFPAT_PUSH_VLAN    = 17 /* Push a new VLAN tag */
	OFPAT_POP_VLAN     = 18 /* Pop the outer VLAN tag */
	OFPAT_PUSH_MPLS    = 19 /* Push a new MPLS tag */
	OFPAT_POP_MPLS     = 20 /* Pop the outer MPLS tag */
	OFPAT_SET_QUEUE    = 21 /* Set queue id when outputting to a port */
	OFPAT_GROUP        = 22 /* Apply group. */
	OFPAT_SET_NW_TTL   = 23 /* IP TTL. */
	OFPAT_DEC_NW_TTL   = 24 /* Decrement IP TTL. */
	OFPAT_SET_FIELD    = 25 /* Set a header field using OXM TLV format. */
	OFPAT_PUSH_PBB     = 26 /* Push a new PBB service tag (I-TAG) */
	OFPAT_POP_PBB      = 27 /* Pop the outer PBB service tag (I-TAG) */
	OFPAT_EXPERIMENTER = 0xffff
)

const (
	OFPIT_GOTO_TABLE     = 1 /* Setup the next table in the lookup pipeline */
	OFPIT_WRITE_METADATA = 2 /* Setup the metadata field for use later in pipeline */
	OFPIT_WRITE_ACTIONS  = 3 /* Write the action(s) onto the datapath action set */
	OFPIT_APPLY_ACTIONS  = 4 /* Applies the action(s) immediately */
	OFPIT_CLEAR_ACTIONS  = 5 /* Clears all actions from the datapath action set */
	OFPIT_METER          = 6 /* Apply meter (rate limiter) */
	OFPIT_EXPERIMENTER   = 0xFFFF
)

const (
	OFPPC_PORT_DOWN    = 1 << 0 /* Port is administratively down. */
	OFPPC_NO_RECV      = 1 << 2 /* Drop all packets received by port. */
	OFPPC_NO_FWD       = 1 << 5 /* Drop packets forwarded to port. */
	OFPPC_NO_PACKET_IN = 1 << 6 /* Do not send packet-in msgs for port. */
)

const (
	OFPPS_LINK_DOWN = 1 << 0 /* No physical link present. */
	OFPPS_BLOCKED   = 1 << 1 /* Port is blocked */
	OFPPS_LIVE      = 1 << 2 /* Live for Fast Failover Group. */
)
